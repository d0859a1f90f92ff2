package extractor

import "errors"

// Kind classifies an Error so transports can map it to a status code.
type Kind int

const (
	// KindInput is a problem with the caller's request.
	KindInput Kind = iota + 1
	// KindConfig means the server is missing a required secret.
	KindConfig
	// KindUpstream is a failure reported by, or while talking to, the content API.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConfig:
		return "config"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error carries a user-facing message and the cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func inputError(msg string) error {
	return &Error{Kind: KindInput, Message: msg}
}

func configError(msg string) error {
	return &Error{Kind: KindConfig, Message: msg}
}

func upstreamError(msg string, cause error) error {
	return &Error{Kind: KindUpstream, Message: msg, Err: cause}
}

// User-facing messages. Clients match on these, keep them stable.
const (
	MsgMissingURL      = "Please provide a valid website URL"
	MsgMissingToken    = "Please complete the captcha verification"
	MsgMissingSecret   = "Server configuration error: Missing Turnstile secret key"
	MsgCaptchaFailed   = "Captcha verification failed, please try again"
	MsgInvalidURL      = "Please provide a valid URL format"
	MsgInvalidMode     = `Crawl mode must be "fast" or "deep"`
	MsgMissingAPIKey   = "Server configuration error: Missing API key"
	MsgScrapeFailed    = "Unable to scrape webpage content"
	MsgDeepCrawlFailed = "Unable to perform deep crawling"
	unknownTitle       = "Unknown Title"

	msgUpstreamUnreachable = "Content API request failed"
)

var (
	errUnsupportedScheme = errors.New("scheme must be http or https")
	errMissingHost       = errors.New("missing host")
)
