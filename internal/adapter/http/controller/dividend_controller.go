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

type DividendController struct {
	service service_interfaces.DividendService
}

func NewDividendController(service service_interfaces.DividendService) *DividendController {
	return &DividendController{service: service}
}

func (c *DividendController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}
	router.Handle("/dividends", wrap(c.declareDividend)).Methods(http.MethodPost)
	router.Handle("/dividends/{id}", wrap(c.getDividend)).Methods(http.MethodGet)
	router.Handle("/dividends/{id}/approve", wrap(c.approveDividend)).Methods(http.MethodPost)
	router.Handle("/dividends/{id}/cancel", wrap(c.cancelDividend)).Methods(http.MethodPost)
	router.Handle("/dividends/{id}/distribute", wrap(c.distributeDividend)).Methods(http.MethodPost)
	router.Handle("/dividends/{id}/distributions", wrap(c.listDistributions)).Methods(http.MethodGet)
}

func (c *DividendController) declareDividend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.DeclareDividendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DividendResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DividendResponse]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.DeclareDividend(r.Context(), req)
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

func (c *DividendController) getDividend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetDividend(r.Context(), mux.Vars(r)["id"])
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

func (c *DividendController) approveDividend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ApproveDividend(r.Context(), mux.Vars(r)["id"])
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

func (c *DividendController) cancelDividend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CancelDividendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DividendResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DividendResponse]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.CancelDividend(r.Context(), mux.Vars(r)["id"], req)
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

func (c *DividendController) distributeDividend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.DistributeDividend(r.Context(), mux.Vars(r)["id"])
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

func (c *DividendController) listDistributions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListDistributions(r.Context(), mux.Vars(r)["id"])
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
