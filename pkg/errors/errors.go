package errors

import (
	"errors"
	"fmt"
)

const (
	ErrCodeUnknownProtocol  ErrCode = "UNKNOWN_PROTOCOL"
	ErrCodeInvalidParameter ErrCode = "INVALID_PARAMETER"
	ErrCodeConfigInvalid    ErrCode = "CONFIG_INVALID"
	ErrCodeNoModels         ErrCode = "NO_MODELS"
	ErrCodeUnsupported      ErrCode = "UNSUPPORTED"
	ErrCodeUnknow           ErrCode = "UNKNOWN"
)

type ErrCode string

type ErrorInfo struct {
	Code    ErrCode `json:"code"`
	Message string  `json:"message"`
	Detail  string  `json:"detail,omitempty"`
}

func (e ErrorInfo) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func IsErrCode(err error, code ErrCode) bool {
	if err == nil {
		return false
	}
	info := ErrorInfo{}
	if errors.As(err, &info) {
		return info.Code == code
	}
	return false
}

func NewUnknownProtocolError(scheme string) ErrorInfo {
	return ErrorInfo{Code: ErrCodeUnknownProtocol, Message: fmt.Sprintf("unknown protocol: %q", scheme)}
}

func NewParameterInvalidError(msg string) ErrorInfo {
	return ErrorInfo{Code: ErrCodeInvalidParameter, Message: msg}
}

func NewConfigInvalidError(msg string) ErrorInfo {
	return ErrorInfo{Code: ErrCodeConfigInvalid, Message: msg}
}

func NewNoModelsError(location string) ErrorInfo {
	return ErrorInfo{Code: ErrCodeNoModels, Message: fmt.Sprintf("no models found in %s", location)}
}

func NewUnsupportedError(msg string) ErrorInfo {
	return ErrorInfo{Code: ErrCodeUnsupported, Message: msg}
}
