package api

import (
	"net/http"

	"shareit/internal/converter"
)

func (s *HTTPServer) handleCreateItemRequest(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req converter.ItemRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.svc.Requests.CreateRequest(r.Context(), requesterID, req.Description)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, converter.ToItemRequestDTO(created))
}

func (s *HTTPServer) handleListOwnItemRequests(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := requireUser(w, r)
	if !ok {
		return
	}

	reqs, err := s.svc.Requests.ListOwnRequests(r.Context(), requesterID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, converter.ToItemRequestDetailsDTOs(reqs))
}

func (s *HTTPServer) handleListOtherItemRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	reqs, err := s.svc.Requests.ListOtherRequests(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, converter.ToItemRequestDetailsDTOs(reqs))
}

func (s *HTTPServer) handleGetItemRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestId")
	if !ok {
		return
	}

	details, err := s.svc.Requests.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, converter.ToItemRequestDetailsDTO(details))
}
