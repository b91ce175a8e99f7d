package httpserver

import (
	"errors"
	"net/http"

	"github.com/bhuumii/Medium/internal/domain"
)

type createPostRequest struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
	Publish *bool  `json:"isPublished"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, accountID string) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	post, err := s.blog.CreatePost(r.Context(), accountID, domain.NewPost{
		Title:   req.Title,
		Excerpt: req.Excerpt,
		Content: req.Content,
		Publish: req.Publish,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	view, err := s.blog.GetPostView(r.Context(), identityFrom(r), r.PathValue("slug"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Excerpt *string `json:"excerpt"`
	Content *string `json:"content"`
	Publish *bool   `json:"isPublished"`
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, accountID string) {
	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	post, err := s.blog.UpdatePost(r.Context(), accountID, r.PathValue("id"), domain.PostUpdate{
		Title:   req.Title,
		Excerpt: req.Excerpt,
		Content: req.Content,
		Publish: req.Publish,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, accountID string) {
	if err := s.blog.DeletePost(r.Context(), accountID, r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Post deleted"})
}

type likeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request, accountID string) {
	count, err := s.blog.LikePost(r.Context(), accountID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			writeError(w, http.StatusBadRequest, "Already liked")
			return
		}
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{Liked: true, LikeCount: count})
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request, accountID string) {
	count, err := s.blog.UnlikePost(r.Context(), accountID, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{Liked: false, LikeCount: count})
}

type bookmarkRequest struct {
	PostID string `json:"postId"`
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request, accountID string) {
	var req bookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	saved, err := s.blog.ToggleBookmark(r.Context(), accountID, req.PostID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}
