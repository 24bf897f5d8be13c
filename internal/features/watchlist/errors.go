package watchlist

import "errors"

var (
	ErrAlreadyListed = errors.New("course already in watchlist")
	ErrNotListed     = errors.New("course not in watchlist")
)
