package httpserver

import (
	"net/http"

	"github.com/bhuumii/Medium/internal/domain"
)

func (s *Server) handleHomeFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.blog.HomeFeed(r.Context(), identityFrom(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Feed{Posts: posts})
}

func (s *Server) handleStories(w http.ResponseWriter, r *http.Request, accountID string) {
	stories, err := s.blog.Stories(r.Context(), accountID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

func (s *Server) handleAuthorPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.blog.AuthorPosts(r.Context(), identityFrom(r), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Feed{Posts: posts})
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request, accountID string) {
	posts, err := s.blog.Library(r.Context(), accountID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Feed{Posts: posts})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	posts, err := s.blog.Search(r.Context(), identityFrom(r), r.URL.Query().Get("q"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Feed{Posts: posts})
}
