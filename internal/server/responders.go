package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"pwmeter/internal/common"
)

type HttpResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func GetNotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		SendHttpFailResponse(w, r, http.StatusNotFound, "not found", fmt.Errorf("endpoint[%s] not found", r.URL.Path))
	}
}

func getRequestLogger(r *http.Request) HttpRequestLogger {
	if log, ok := r.Context().Value(HttpContextLogger).(HttpRequestLogger); ok {
		return log
	}
	return func(common.LogLevel, string) {}
}

func SendHttpFailResponse(
	responseWriter http.ResponseWriter,
	request *http.Request,
	statusCode int,
	message string,
	errorCode ...error,
) {
	log := getRequestLogger(request)
	responseData := HttpResponse{
		Message: message,
		Success: false,
	}
	if len(errorCode) > 0 {
		log(common.LogLevelError, fmt.Sprintf("%s: %s", message, errorCode[0]))
		responseData.Data = errorCode[0].Error()
	} else {
		log(common.LogLevelError, message)
		responseData.Data = "generic_error"
	}
	writeJson(responseWriter, request, statusCode, responseData)
}

func SendHttpSuccessResponse(
	responseWriter http.ResponseWriter,
	request *http.Request,
	statusCode int,
	message string,
	data ...any,
) {
	responseData := HttpResponse{
		Message: message,
		Success: true,
	}
	if len(data) > 0 {
		responseData.Data = data[0]
	}
	writeJson(responseWriter, request, statusCode, responseData)
}

// writeJson sends `responseData` as the body; when it cannot be encoded a
// 500 failure envelope is sent instead
func writeJson(responseWriter http.ResponseWriter, request *http.Request, statusCode int, responseData HttpResponse) {
	res, err := json.Marshal(responseData)
	if err != nil {
		getRequestLogger(request)(common.LogLevelError, fmt.Sprintf("failed to encode response: %s", err))
		statusCode = http.StatusInternalServerError
		res, _ = json.Marshal(HttpResponse{
			Data:    ErrorEncoding.Error(),
			Message: "failed to encode response",
			Success: false,
		})
	}
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(statusCode)
	responseWriter.Write(res)
}
