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

type DepositController struct {
	service service_interfaces.DepositService
}

func NewDepositController(service service_interfaces.DepositService) *DepositController {
	return &DepositController{service: service}
}

func (c *DepositController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}
	router.Handle("/deposits", wrap(c.bookDeposit)).Methods(http.MethodPost)
	router.Handle("/deposits/{id}", wrap(c.getDeposit)).Methods(http.MethodGet)
	router.Handle("/deposits/{id}/mature", wrap(c.mature)).Methods(http.MethodPost)
	router.Handle("/deposits/{id}/close", wrap(c.closePrematurely)).Methods(http.MethodPost)
	router.Handle("/deposits/{id}/installments", wrap(c.recordInstallment)).Methods(http.MethodPost)
	router.Handle("/deposits/{id}/penalty", wrap(c.missedInstallmentPenalty)).Methods(http.MethodGet)
}

func (c *DepositController) bookDeposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.BookDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DepositResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DepositResponse]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.BookDeposit(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *DepositController) getDeposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetDeposit(r.Context(), mux.Vars(r)["id"])
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

func (c *DepositController) mature(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.Mature(r.Context(), mux.Vars(r)["id"])
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

func (c *DepositController) closePrematurely(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CloseDepositRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logError(r, err, nil)
			response := commons.ErrorResponse[models.DepositResponse]("invalid request body", err.Error())
			writeJSON(w, http.StatusBadRequest, response)
			logResponse(r, http.StatusBadRequest, response, start)
			return
		}
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DepositResponse]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.ClosePrematurely(r.Context(), mux.Vars(r)["id"], req)
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

func (c *DepositController) recordInstallment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.RecordInstallment(r.Context(), mux.Vars(r)["id"])
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

func (c *DepositController) missedInstallmentPenalty(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.MissedInstallmentPenalty(r.Context(), mux.Vars(r)["id"])
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
