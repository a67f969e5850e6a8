package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "admin-list-users",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users",
		Summary:     "List all users",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "admin-list-pending-users",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users/pending",
		Summary:     "List pending users",
		Description: "Returns accounts awaiting admin approval",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListPendingUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "admin-approve-user",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/users/{id}/approve",
		Summary:     "Approve user",
		Description: "Activates a pending account so it can sign in",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminApproveUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "admin-adopt-books",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/books/adopt",
		Summary:     "Adopt orphan books",
		Description: "Assigns ownerless book documents to the requesting admin",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminAdoptBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "admin-reindex-search",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Rebuilds the library search index from the store",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminReindexSearch)
}

// === DTOs ===

// AdminAuthInput carries only auth for Huma.
type AdminAuthInput struct {
	Authorization string `header:"Authorization"`
}

// ApproveUserInput identifies the user to approve.
type ApproveUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// UserListOutput wraps a list of users.
type UserListOutput struct {
	Body struct {
		Users []UserResponse `json:"users" doc:"User accounts"`
		Total int            `json:"total" doc:"Number of users"`
	}
}

// AdoptBooksOutput reports how many books were adopted.
type AdoptBooksOutput struct {
	Body struct {
		Adopted int `json:"adopted" doc:"Number of books claimed"`
	}
}

// ReindexOutput reports how many books were reindexed.
type ReindexOutput struct {
	Body struct {
		Indexed int `json:"indexed" doc:"Number of books indexed"`
	}
}

// === Handlers ===

func (s *Server) handleAdminListUsers(ctx context.Context, input *AdminAuthInput) (*UserListOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := &UserListOutput{}
	out.Body.Users = make([]UserResponse, len(users))
	for i := range users {
		out.Body.Users[i] = mapUserResponse(&users[i])
	}
	out.Body.Total = len(users)
	return out, nil
}

func (s *Server) handleAdminListPendingUsers(ctx context.Context, input *AdminAuthInput) (*UserListOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Admin.ListPendingUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := &UserListOutput{}
	out.Body.Users = make([]UserResponse, len(users))
	for i := range users {
		out.Body.Users[i] = mapUserResponse(&users[i])
	}
	out.Body.Total = len(users)
	return out, nil
}

func (s *Server) handleAdminApproveUser(ctx context.Context, input *ApproveUserInput) (*UserOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Admin.ApproveUser(ctx, admin.ID, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleAdminAdoptBooks(ctx context.Context, input *AdminAuthInput) (*AdoptBooksOutput, error) {
	admin, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	adopted, err := s.services.Admin.AdoptOrphanBooks(ctx, admin.ID)
	if err != nil {
		return nil, err
	}

	out := &AdoptBooksOutput{}
	out.Body.Adopted = adopted
	return out, nil
}

func (s *Server) handleAdminReindexSearch(ctx context.Context, input *AdminAuthInput) (*ReindexOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	indexed, err := s.services.Book.ReindexLibrary(ctx)
	if err != nil {
		return nil, err
	}

	out := &ReindexOutput{}
	out.Body.Indexed = indexed
	return out, nil
}
