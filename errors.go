package board

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeAccountDisabled    = "ACCOUNT_DISABLED"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeInputTooLong       = "INPUT_TOO_LONG"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodePasswordMismatch   = "PASSWORD_MISMATCH"
	TextCodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
	TextCodeIdentityLookup     = "IDENTITY_LOOKUP_FAILED"
	TextCodeMissingSubject     = "MISSING_SUBJECT"
	TextCodeMissingSecret      = "MISSING_SECRET"
	TextCodeUnsupportedAlg     = "UNSUPPORTED_ALGORITHM"
	TextCodeUsernameTaken      = "USERNAME_TAKEN"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodePostNotFound       = "POST_NOT_FOUND"
	TextCodeCommentNotFound    = "COMMENT_NOT_FOUND"
	TextCodeParentNotFound     = "PARENT_COMMENT_NOT_FOUND"
	TextCodeInvalidPayload     = "INVALID_PAYLOAD"
)

// ErrUnauthenticated no credential, or the credential does not name a live account
var ErrUnauthenticated = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrAccountDisabled the credential is valid but the account is inactive
var ErrAccountDisabled = errors.New("account is disabled", errors.CategoryAuthz).
	WithTextCode(TextCodeAccountDisabled).
	WithCode(errors.CodeForbidden)

// ErrForbidden authenticated but lacking privilege or ownership
var ErrForbidden = errors.New("not enough permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrInputTooLong password exceeds the bcrypt 72 byte limit
var ErrInputTooLong = errors.New("password must not exceed 72 bytes", errors.CategoryValidation).
	WithTextCode(TextCodeInputTooLong).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString empty passwords are never hashed
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials login failed, either unknown username or wrong password
var ErrInvalidCredentials = errors.New("incorrect username or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword bcrypt comparison failed
var ErrMismatchedHashAndPassword = errors.New("password does not match hash", errors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrIdentityLookup the user store failed for reasons other than not found
var ErrIdentityLookup = errors.New("failed to look up identity", errors.CategoryInternal).
	WithTextCode(TextCodeIdentityLookup).
	WithCode(errors.CodeInternal)

var ErrMissingSubject = errors.New("token claims require a subject", errors.CategoryValidation).
	WithTextCode(TextCodeMissingSubject).
	WithCode(errors.CodeBadRequest)

var ErrMissingSecret = errors.New("token signing secret is required", errors.CategoryValidation).
	WithTextCode(TextCodeMissingSecret).
	WithCode(errors.CodeInternal)

var ErrUnsupportedAlgorithm = errors.New("unsupported token signing algorithm", errors.CategoryValidation).
	WithTextCode(TextCodeUnsupportedAlg).
	WithCode(errors.CodeInternal)

var ErrUsernameTaken = errors.New("username already registered", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeBadRequest)

var ErrEmailTaken = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeBadRequest)

var ErrPostNotFound = errors.New("post not found", errors.CategoryNotFound).
	WithTextCode(TextCodePostNotFound).
	WithCode(errors.CodeNotFound)

var ErrCommentNotFound = errors.New("comment not found", errors.CategoryNotFound).
	WithTextCode(TextCodeCommentNotFound).
	WithCode(errors.CodeNotFound)

var ErrParentCommentNotFound = errors.New("parent comment not found", errors.CategoryNotFound).
	WithTextCode(TextCodeParentNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidPayload request body failed to parse
var ErrInvalidPayload = errors.New("invalid request payload", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidPayload).
	WithCode(errors.CodeBadRequest)

// Kind is the closed set of outcomes callers of the auth core branch on
type Kind int

const (
	KindOther Kind = iota
	KindUnauthenticated
	KindAccountDisabled
	KindForbidden
	KindInputTooLong
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAccountDisabled:
		return "account_disabled"
	case KindForbidden:
		return "forbidden"
	case KindInputTooLong:
		return "input_too_long"
	default:
		return "other"
	}
}

// KindOf classifies err by its text code so that wrapped and cloned
// errors keep their kind.
func KindOf(err error) Kind {
	if err == nil {
		return KindOther
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return KindOther
	}

	switch richErr.TextCode {
	case TextCodeUnauthenticated:
		return KindUnauthenticated
	case TextCodeAccountDisabled:
		return KindAccountDisabled
	case TextCodeForbidden:
		return KindForbidden
	case TextCodeInputTooLong:
		return KindInputTooLong
	default:
		return KindOther
	}
}
