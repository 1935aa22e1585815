package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"purchasepredict/ml"
)

// Predictor scores a batch of raw records.
type Predictor interface {
	Predict(records []ml.RawRecord) ([]ml.Prediction, error)
}

// Handlers serves the prediction API.
type Handlers struct {
	predictor      Predictor
	logger         *zap.Logger
	metrics        *Metrics
	validationMode string
	modelType      string
}

func NewHandlers(predictor Predictor, logger *zap.Logger, metrics *Metrics, validationMode, modelType string) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handlers{
		predictor:      predictor,
		logger:         logger,
		metrics:        metrics,
		validationMode: validationMode,
		modelType:      modelType,
	}
}

func (h *Handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"predict": "Customer Purchase Prediction"})
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "model": h.modelType})
}

func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	record, err := decodeRecord(r, h.validationMode)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.metrics.observeRejection("too_large")
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.rejectInput(w, r, "validation", err)
		return
	}

	predictions, err := h.predictor.Predict([]ml.RawRecord{record})
	if err != nil {
		var parseErr *ml.ParseError
		var conflict *ml.KeyConflictError
		switch {
		case errors.As(err, &parseErr):
			h.rejectInput(w, r, "parse", &ValidationError{Detail: []*FieldError{
				newFieldError(parseErr.Field, "date must be YYYY-MM-DD", "value_error.date"),
			}})
		case errors.As(err, &conflict):
			h.rejectInput(w, r, "key_conflict", &ValidationError{Detail: []*FieldError{
				newFieldError("id", conflict.Error(), "value_error.key_conflict"),
			}})
		default:
			h.metrics.observeRejection("model")
			h.logger.Error("prediction failed",
				zap.String("request_id", GetRequestID(r.Context())),
				zap.Int64("id", record.ID),
				zap.Error(err),
			)
			respondError(w, http.StatusInternalServerError, "prediction failed")
		}
		return
	}

	prediction := predictions[0]
	h.metrics.observePrediction(prediction.Label)
	h.logger.Debug("prediction",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.Int64("id", prediction.ID),
		zap.Int("class", prediction.Class),
		zap.Float64("confidence", prediction.Confidence),
		zap.Any("features", prediction.Features),
	)
	respondJSON(w, http.StatusOK, map[string]string{"prediction": prediction.Label})
}

func (h *Handlers) rejectInput(w http.ResponseWriter, r *http.Request, reason string, err error) {
	h.metrics.observeRejection(reason)
	h.logger.Info("prediction request rejected",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("reason", reason),
		zap.Error(err),
	)
	var verr *ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, verr)
		return
	}
	respondError(w, http.StatusUnprocessableEntity, err.Error())
}
