package socketio

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	socket "github.com/zishang520/socket.io/socket"

	jwtutil "github.com/mo-amir99/coursehub-server-go/internal/utils/jwt"
)

// Event names pushed to clients.
const (
	EventConnected       = "connectionConfirmed"
	EventProgressUpdated = "progressUpdated"
)

// Server pushes per-student notifications (progress changes) to open player tabs.
// Every authenticated socket joins the room user_<id>.
type Server struct {
	io        *socket.Server
	logger    *slog.Logger
	jwtSecret string
}

type identity struct {
	userID uuid.UUID
}

// NewServer creates the Socket.IO server.
func NewServer(logger *slog.Logger, jwtSecret string) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetPingTimeout(60 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	opts.SetServeClient(false)
	opts.SetPath("/socket.io")

	s := &Server{
		io:        socket.NewServer(nil, opts),
		logger:    logger,
		jwtSecret: jwtSecret,
	}

	s.io.Use(s.authenticate)
	s.io.On("connection", func(args ...any) {
		sock, ok := args[0].(*socket.Socket)
		if !ok {
			s.logger.Error("unexpected connection payload", slog.Any("payload", args))
			return
		}
		s.handleConnection(sock)
	})

	return s
}

// Handler returns the HTTP handler for Socket.IO.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close shuts down the Socket.IO server.
func (s *Server) Close() {
	done := make(chan struct{})
	s.io.Close(func() { close(done) })
	<-done
}

// NotifyUser emits event to every socket of the user.
func (s *Server) NotifyUser(userID uuid.UUID, event string, payload any) {
	if err := s.io.To(UserRoom(userID)).Emit(event, payload); err != nil {
		s.logger.Warn("socket emit failed",
			slog.String("event", event),
			slog.String("userId", userID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// UserRoom names the room of a user's sockets.
func UserRoom(userID uuid.UUID) socket.Room {
	return socket.Room("user_" + userID.String())
}

func (s *Server) authenticate(sock *socket.Socket, next func(*socket.ExtendedError)) {
	token := extractToken(sock)
	if token == "" {
		next(socket.NewExtendedError("missing authentication token", map[string]any{"code": "MISSING_TOKEN"}))
		return
	}

	claims, err := jwtutil.VerifyToken(token, s.jwtSecret)
	if err != nil {
		s.logger.Debug("socket rejected", slog.String("error", err.Error()))
		next(socket.NewExtendedError("invalid token", map[string]any{"code": "INVALID_TOKEN"}))
		return
	}

	sock.SetData(&identity{userID: claims.UserID})
	next(nil)
}

func (s *Server) handleConnection(sock *socket.Socket) {
	id, ok := sock.Data().(*identity)
	if !ok {
		sock.Disconnect(true)
		return
	}

	sock.Join(UserRoom(id.userID))
	if err := sock.Emit(EventConnected, map[string]any{
		"userId":    id.userID.String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.logger.Warn("failed to confirm socket connection", slog.String("error", err.Error()))
	}

	sock.On("disconnect", func(args ...any) {
		s.logger.Debug("socket disconnected",
			slog.String("userId", id.userID.String()),
			slog.String("socketId", string(sock.Id())),
		)
	})
}

// extractToken reads the JWT from the handshake auth payload or the query string.
func extractToken(sock *socket.Socket) string {
	if sock == nil {
		return ""
	}

	if hs := sock.Handshake(); hs != nil {
		if authMap, ok := hs.Auth.(map[string]any); ok {
			if token, ok := authMap["token"].(string); ok && token != "" {
				return token
			}
		}
		if hs.Query != nil {
			if token, ok := hs.Query.Get("token"); ok && token != "" {
				return token
			}
		}
	}

	return ""
}
