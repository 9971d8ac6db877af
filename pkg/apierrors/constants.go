package apierrors

const (
	MsgUnauthenticated     = "unauthenticated"
	MsgInvalidCredentials  = "invalidCredentials"
	MsgRateLimited         = "rateLimited"
	MsgForbidden           = "forbidden"
	MsgValidationFailed    = "validationFailed"
	MsgInvalidID           = "invalidID"
	MsgInvalidPayload      = "invalidPayload"
	MsgNotFound            = "notFound"
	MsgTaskNotFound        = "taskNotFound"
	MsgCommentNotFound     = "commentNotFound"
	MsgAttachmentNotFound  = "attachmentNotFound"
	MsgUserNotFound        = "userNotFound"
	MsgFileNotFound        = "fileNotFound"
	MsgEmailTaken          = "emailTaken"
	MsgConflict            = "conflict"
	MsgStorageFailure      = "storageFailure"
	MsgInternal            = "internalError"
	MsgTaskDeleted         = "taskDeleted"
	MsgCommentDeleted      = "commentDeleted"
	MsgAttachmentDeleted   = "attachmentDeleted"
	MsgLoggedOut           = "loggedOut"
	MsgRouteNotFound       = "routeNotFound"
)

// rulePrefix prefixes the message id of a field validation rule, e.g.
// "rule_required".
const rulePrefix = "rule_"
