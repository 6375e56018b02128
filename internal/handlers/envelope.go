package handlers

import "github.com/smartkuk/simple-flask/internal/users"

// Response bodies shared by the handlers. Read responses carry the version
// label alongside the payload.

type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

type userResponse struct {
	User    users.View `json:"user"`
	Version string     `json:"version"`
}

type userListResponse struct {
	Users   []users.View `json:"users"`
	Version string       `json:"version"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
