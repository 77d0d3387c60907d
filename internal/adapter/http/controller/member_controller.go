package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/models"
	"github.com/api-sage/coop-banking-core/internal/commons"
	"github.com/api-sage/coop-banking-core/internal/logger"
	"github.com/api-sage/coop-banking-core/internal/usecase/service_interfaces"
	"github.com/gorilla/mux"
)

type MemberController struct {
	service service_interfaces.MemberService
}

func NewMemberController(service service_interfaces.MemberService) *MemberController {
	return &MemberController{service: service}
}

func (c *MemberController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	create := http.Handler(http.HandlerFunc(c.createMember))
	get := http.Handler(http.HandlerFunc(c.getMember))
	if authMiddleware != nil {
		create = authMiddleware(create)
		get = authMiddleware(get)
	}
	router.Handle("/members", create).Methods(http.MethodPost)
	router.Handle("/members/{id}", get).Methods(http.MethodGet)
}

func (c *MemberController) createMember(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CreateMemberResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CreateMemberResponse]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.CreateMember(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *MemberController) getMember(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetMember(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
