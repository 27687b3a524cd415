// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler reports worker errors back to Zeebe.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Resolution is what the handler does with a failed job.
type Resolution struct {
	Throw   bool
	Retries int
}

// Resolve decides between failing the job with retries and throwing a BPMN
// error. Retries never exceed what the job has left.
func Resolve(stdErr *StandardError, jobRetries int32) Resolution {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable || retries == 0 || jobRetries <= 1 {
		return Resolution{Throw: true}
	}
	if int(jobRetries)-1 < retries {
		retries = int(jobRetries) - 1
	}
	return Resolution{Retries: retries}
}

// HandleJobError normalizes err, logs it and either fails or throws the job.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := AsStandardError(err)
	bpmnErr := ConvertToBPMNError(stdErr)
	res := Resolve(stdErr, job.Retries)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":        job.Key,
		"jobType":       job.Type,
		"workflowKey":   job.ProcessInstanceKey,
		"errorCode":     string(stdErr.Code),
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       res.Retries,
		"thrown":        res.Throw,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	vars := ""
	if b, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		vars = string(b)
	}

	var sendErr error
	if res.Throw {
		cmd := client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(bpmnErr.Code).
			ErrorMessage(bpmnErr.Message)
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, sendErr = withVars.Send(ctx)
		} else {
			_, sendErr = cmd.Send(ctx)
		}
	} else {
		cmd := client.NewFailJobCommand().
			JobKey(job.Key).
			Retries(int32(res.Retries)).
			ErrorMessage(stdErr.Error())
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, sendErr = withVars.Send(ctx)
		} else {
			_, sendErr = cmd.Send(ctx)
		}
	}

	if sendErr != nil {
		h.logger.Error("failed to report job error", map[string]interface{}{
			"jobKey": job.Key,
			"error":  sendErr,
		})
	}
}
