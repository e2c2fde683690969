package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	Forbidden           failure.ErrorCode = "Forbidden"
	Unauthorized        failure.ErrorCode = "Unauthorized"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Unavailable         failure.ErrorCode = "Unavailable"
	AccessTokenExpired  failure.ErrorCode = "AccessTokenExpired"
	AccessTokenInvalid  failure.ErrorCode = "AccessTokenInvalid"
	CredentialsMismatch failure.ErrorCode = "CredentialsMismatch"

	// Pricing automation.
	RuleNotFound       failure.ErrorCode = "RuleNotFound"
	InvalidRule        failure.ErrorCode = "InvalidRule"
	InvalidCondition   failure.ErrorCode = "InvalidCondition"
	InvalidAction      failure.ErrorCode = "InvalidAction"
	AlertNotFound      failure.ErrorCode = "AlertNotFound"
	ProductNotFound    failure.ErrorCode = "ProductNotFound"
	ProductUpdateError failure.ErrorCode = "ProductUpdateError"
	SchedulerRunning   failure.ErrorCode = "SchedulerRunning"

	// Trends, reputation.
	TrendNotFound   failure.ErrorCode = "TrendNotFound"
	ReviewNotFound  failure.ErrorCode = "ReviewNotFound"
	AlreadyReplied  failure.ErrorCode = "AlreadyReplied"
	InvalidQuestion failure.ErrorCode = "InvalidQuestion"

	// Admin and auth.
	UserNotFound          failure.ErrorCode = "UserNotFound"
	InviteNotFound        failure.ErrorCode = "InviteNotFound"
	InviteExpired         failure.ErrorCode = "InviteExpired"
	InviteNotPending      failure.ErrorCode = "InviteNotPending"
	EmailAlreadyInUse     failure.ErrorCode = "EmailAlreadyInUse"
	InvalidUserRole       failure.ErrorCode = "InvalidUserRole"
	InvalidUserStatus     failure.ErrorCode = "InvalidUserStatus"
	InvalidPasswordFormat failure.ErrorCode = "InvalidPasswordFormat"
	CannotDeleteSelf      failure.ErrorCode = "CannotDeleteSelf"
	CannotChangeOwnAccess failure.ErrorCode = "CannotChangeOwnAccess"
)
