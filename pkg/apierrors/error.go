package apierrors

import (
	"fmt"

	"taskmanager/pkg/translator"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code and message. Kind and Fields are set
// for failures raised by the domain layer.
type Err struct {
	Code    int               `json:"code"`
	Kind    string            `json:"kind,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	return JsonErr{ErrDetails: Err{Code: code, Message: message}}
}

// CreateKindError is CreateError with an error kind and per-field rule
// failures. Each rule is translated with the field name as template data.
func CreateKindError(code int, kind, msgKey string, fields map[string]string, lang string) JsonErr {
	e := CreateError(code, msgKey, lang)
	e.ErrDetails.Kind = kind
	if len(fields) > 0 {
		e.ErrDetails.Fields = make(map[string]string, len(fields))
		for field, rule := range fields {
			e.ErrDetails.Fields[field] = translate(rulePrefix+rule, lang, map[string]string{"Field": field})
		}
	}
	return e
}

// GetTransErrorMsg retrieves the translated error message.
func GetTransErrorMsg(msgKey string, lang string) string {
	return translate(msgKey, lang, nil)
}

func translate(msgKey, lang string, data map[string]string) string {
	if translator.Translator == nil {
		return msgKey
	}
	l := i18n.NewLocalizer(translator.Translator, lang, translator.LanguageEn)
	m := i18n.LocalizeConfig{MessageID: msgKey}
	if data != nil {
		m.TemplateData = data
	}
	msg, err := l.Localize(&m)
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", msgKey), zap.Error(err))
		return msgKey
	}
	return msg
}
