package reply

import (
	"context"
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"melidash/pkg/contextx"
	"melidash/pkg/errcodes"
	"melidash/pkg/logx"
	"melidash/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// codedError is implemented by domain errors that carry their own code.
type codedError interface {
	error
	ErrorCode() failure.ErrorCode
	Description() string
}

//nolint:gochecknoglobals
var statusByCode = map[failure.ErrorCode]int{
	errcodes.ValidationError:       http.StatusBadRequest,
	errcodes.InvalidRule:           http.StatusBadRequest,
	errcodes.InvalidCondition:      http.StatusBadRequest,
	errcodes.InvalidAction:         http.StatusBadRequest,
	errcodes.InvalidQuestion:       http.StatusBadRequest,
	errcodes.InvalidUserRole:       http.StatusBadRequest,
	errcodes.InvalidUserStatus:     http.StatusBadRequest,
	errcodes.InvalidPasswordFormat: http.StatusBadRequest,
	errcodes.Unauthorized:          http.StatusUnauthorized,
	errcodes.AccessTokenExpired:    http.StatusUnauthorized,
	errcodes.AccessTokenInvalid:    http.StatusUnauthorized,
	errcodes.CredentialsMismatch:   http.StatusUnauthorized,
	errcodes.Forbidden:             http.StatusForbidden,
	errcodes.CannotDeleteSelf:      http.StatusForbidden,
	errcodes.CannotChangeOwnAccess: http.StatusForbidden,
	errcodes.NotFound:              http.StatusNotFound,
	errcodes.RuleNotFound:          http.StatusNotFound,
	errcodes.AlertNotFound:         http.StatusNotFound,
	errcodes.ProductNotFound:       http.StatusNotFound,
	errcodes.TrendNotFound:         http.StatusNotFound,
	errcodes.ReviewNotFound:        http.StatusNotFound,
	errcodes.UserNotFound:          http.StatusNotFound,
	errcodes.InviteNotFound:        http.StatusNotFound,
	errcodes.EmailAlreadyInUse:     http.StatusConflict,
	errcodes.AlreadyReplied:        http.StatusConflict,
	errcodes.SchedulerRunning:      http.StatusConflict,
	errcodes.InviteExpired:         http.StatusGone,
	errcodes.InviteNotPending:      http.StatusGone,
	errcodes.Unavailable:           http.StatusUnprocessableEntity,
	errcodes.ProductUpdateError:    http.StatusBadGateway,
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// Success writes data inside the {"success": true, "data": ...} envelope.
func Success(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	JSON(ctx, w, statusCode, rest.Envelope{Success: true, Data: data})
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	status, response := errorResponse(ctx, err)

	if status >= http.StatusInternalServerError {
		logger(ctx).Error("error", logx.Error(err))
	} else {
		logger(ctx).Warn("error", logx.Error(err))
	}

	JSON(ctx, w, status, response)
}

func errorResponse(ctx context.Context, err error) (int, rest.Error) {
	response := rest.Error{
		Success:   false,
		SupportID: supportID(ctx),
	}

	var coded codedError
	if errors.As(err, &coded) {
		response.Code = rest.ErrorCode(coded.ErrorCode().String())
		response.Error = coded.Description()

		status, ok := statusByCode[coded.ErrorCode()]
		if !ok {
			status = http.StatusInternalServerError
		}

		if status == http.StatusInternalServerError {
			response.Error = "internal server error"
		}

		return status, response
	}

	response.Code = rest.ErrorCode(failure.Code(err).String())
	response.Error = failure.Description(err)

	var status int

	switch {
	case failure.IsInvalidArgumentError(err):
		status = http.StatusBadRequest
		withDefaultCode(&response, errcodes.ValidationError)
	case failure.IsNotFoundError(err):
		status = http.StatusNotFound
		withDefaultCode(&response, errcodes.NotFound)
	case failure.IsUnauthorizedError(err):
		status = http.StatusUnauthorized
		withDefaultCode(&response, errcodes.Unauthorized)
	case failure.IsForbiddenError(err):
		status = http.StatusForbidden
		withDefaultCode(&response, errcodes.Forbidden)
	case failure.IsConflictError(err):
		status = http.StatusConflict
	case failure.IsUnprocessableEntityError(err):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		response.Code = rest.ErrorCode(errcodes.InternalServerError)
		response.Error = "internal server error"
	}

	if response.Error == "" {
		response.Error = http.StatusText(status)
	}

	return status, response
}

func withDefaultCode(response *rest.Error, code failure.ErrorCode) {
	if response.Code == "" {
		response.Code = rest.ErrorCode(code.String())
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
