package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"pwmeter/internal/common"
	"pwmeter/internal/scorer"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxPasswordLength = 256

var (
	ErrorInvalidInput = errors.New("invalid_input")
	ErrorScoring      = errors.New("scoring_failed")
	ErrorNotReady     = errors.New("not_ready")
	ErrorEncoding     = errors.New("encoding_failed")
)

// Scorer is satisfied by *scorer.Loader
type Scorer interface {
	LoadAndScore(ctx context.Context, password string, contextTokens []string) (*scorer.Result, error)
}

type HttpApplicationOpts struct {
	Scorer Scorer

	LivenessChecks  []func() error
	ReadinessChecks []func() error

	ServiceLogs chan<- common.ServiceLog
}

// GetHttpApplication returns the router serving the scoring api, the
// health probes and the prometheus metrics
func GetHttpApplication(opts HttpApplicationOpts) (http.Handler, error) {
	if opts.Scorer == nil {
		return nil, fmt.Errorf("failed to initialise http application: %w", scorer.ErrNotConfigured)
	}
	if opts.ServiceLogs == nil {
		opts.ServiceLogs = common.GetNoopServiceLog()
	}

	handler := mux.NewRouter()
	handler.NotFoundHandler = GetNotFoundHandler()
	handler.Use(getMetricsMiddleware())
	handler.HandleFunc("/healthz", getProbeHandler(opts.LivenessChecks)).Methods(http.MethodGet)
	handler.HandleFunc("/readyz", getProbeHandler(opts.ReadinessChecks)).Methods(http.MethodGet)
	handler.Handle("/metrics", promhttp.Handler())

	v1 := handler.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/score", getScoreHandler(opts.Scorer)).Methods(http.MethodPost)

	if err := handler.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		opts.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "registered route[%s] with methods[%s]", pathTemplate, strings.Join(methods, "|"))
		return nil
	}); err != nil {
		return nil, err
	}

	return handler, nil
}

type handleProbeOutput struct {
	Status string `json:"status"`
}

func getProbeHandler(checks []func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issues := []error{}
		for _, check := range checks {
			if err := check(); err != nil {
				issues = append(issues, err)
			}
		}
		if len(issues) > 0 {
			SendHttpFailResponse(w, r, http.StatusServiceUnavailable, "not ok", errors.Join(issues...))
			return
		}
		SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleProbeOutput{Status: "ok"})
	}
}

type handleScoreV1Input struct {
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

func getScoreHandler(passwordScorer Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := getRequestLogger(r)
		requestBody, err := io.ReadAll(io.LimitReader(r.Body, 16<<10))
		if err != nil {
			SendHttpFailResponse(w, r, http.StatusBadRequest, "failed to read request body", ErrorInvalidInput)
			return
		}
		var input handleScoreV1Input
		if err := json.Unmarshal(requestBody, &input); err != nil {
			SendHttpFailResponse(w, r, http.StatusBadRequest, "failed to parse request body", ErrorInvalidInput)
			return
		}
		if len([]rune(input.Password)) > maxPasswordLength {
			SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("password must not exceed %v characters", maxPasswordLength), ErrorInvalidInput)
			return
		}
		log(common.LogLevelDebug, fmt.Sprintf("scoring password of length %v", len(input.Password)))

		result, err := passwordScorer.LoadAndScore(r.Context(), input.Password, []string{input.Name, input.Email})
		if err != nil {
			log(common.LogLevelError, fmt.Sprintf("failed to score password: %s", err))
			SendHttpFailResponse(w, r, http.StatusInternalServerError, "failed to score password", ErrorScoring)
			return
		}
		SendHttpSuccessResponse(w, r, http.StatusOK, "ok", result)
	}
}
