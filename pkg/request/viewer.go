package request

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

const viewerKey = "viewer"

// SetViewer stores the authenticated caller on the context.
func SetViewer(c *gin.Context, viewer *types.Viewer) {
	c.Set(viewerKey, viewer)
}

// Viewer returns the authenticated caller, or nil for guests.
func Viewer(c *gin.Context) *types.Viewer {
	value, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	viewer, _ := value.(*types.Viewer)
	return viewer
}

// ViewerID returns the caller id, or nil for guests.
func ViewerID(c *gin.Context) *uuid.UUID {
	return Viewer(c).IDPtr()
}
