// Package extractor runs the extraction pipeline: validate, verify the captcha,
// fetch through the content API in the requested mode, then filter emails.
package extractor

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/JakeFAU/email-extractor/internal/clock/system"
	"github.com/JakeFAU/email-extractor/internal/extract"
	"github.com/JakeFAU/email-extractor/internal/hash/sha256"
	"github.com/JakeFAU/email-extractor/internal/history"
	"github.com/JakeFAU/email-extractor/internal/id/uuid"
	"github.com/JakeFAU/email-extractor/internal/metrics"
)

const historyWriteTimeout = 5 * time.Second

// Service is safe for concurrent use; no state is shared between calls.
type Service struct {
	scraper  Scraper
	verifier CaptchaVerifier
	filter   *extract.Filter
	history  history.Store
	hasher   Hasher
	ids      IDGenerator
	clock    Clock
	logger   *zap.Logger
}

// NewService wires the pipeline. Nil filter, store, ids, clock and logger get defaults.
func NewService(
	scraper Scraper,
	verifier CaptchaVerifier,
	filter *extract.Filter,
	store history.Store,
	ids IDGenerator,
	clock Clock,
	logger *zap.Logger,
) *Service {
	if filter == nil {
		filter = extract.NewFilter(nil)
	}
	if store == nil {
		store = history.NoOp{}
	}
	if ids == nil {
		ids = uuid.New()
	}
	if clock == nil {
		clock = system.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scraper:  scraper,
		verifier: verifier,
		filter:   filter,
		history:  store,
		hasher:   sha256.New(),
		ids:      ids,
		clock:    clock,
		logger:   logger,
	}
}

// Process handles one public request. Checks run in a fixed order and the
// first failure is returned as an *Error; nothing external is called for a
// request that fails before the captcha step.
func (s *Service) Process(ctx context.Context, req Request, clientIP string) (Result, error) {
	target := strings.TrimSpace(req.URL)
	if target == "" {
		return Result{}, inputError(MsgMissingURL)
	}

	if !s.verifier.Bypassed() {
		if req.TurnstileToken == "" {
			return Result{}, inputError(MsgMissingToken)
		}
		if !s.verifier.Configured() {
			s.logger.Error("turnstile secret key is not configured")
			return Result{}, configError(MsgMissingSecret)
		}
	}
	if !s.verifier.Verify(ctx, req.TurnstileToken, clientIP) {
		return Result{}, inputError(MsgCaptchaFailed)
	}

	return s.Extract(ctx, target, req.CrawlMode)
}

// Extract fetches rawURL in the given mode and returns the filtered emails.
// It skips captcha verification and is meant for trusted callers.
func (s *Service) Extract(ctx context.Context, rawURL, mode string) (Result, error) {
	target := strings.TrimSpace(rawURL)
	if target == "" {
		return Result{}, inputError(MsgMissingURL)
	}
	u, err := parseTarget(target)
	if err != nil {
		return Result{}, inputError(MsgInvalidURL)
	}
	m, err := ParseMode(mode)
	if err != nil {
		return Result{}, err
	}
	if !s.scraper.Configured() {
		s.logger.Error("firecrawl api key is not configured")
		metrics.ObserveExtraction(m.String(), "config_error", 0)
		return Result{}, configError(MsgMissingAPIKey)
	}

	start := s.clock.Now()
	log := s.logger.With(zap.String("url", target), zap.String("mode", m.String()))

	page, err := plans[m].fetch(ctx, s.scraper, target)
	if err != nil {
		log.Warn("content fetch failed", zap.Error(err))
		metrics.ObserveExtraction(m.String(), "upstream_error", 0)
		return Result{}, err
	}

	emails := s.filter.Emails(page.content)
	res := Result{
		Success:      true,
		URL:          target,
		Title:        page.title,
		Emails:       emails,
		Count:        len(emails),
		PagesCrawled: page.pages,
		CrawlMode:    m,
	}
	metrics.ObserveExtraction(m.String(), "success", res.Count)
	log.Info("extraction finished",
		zap.Int("emails", res.Count),
		zap.Int("pages", res.PagesCrawled),
		zap.Duration("duration", s.clock.Now().Sub(start)),
	)

	s.record(ctx, u, res, s.hasher.Hash(page.content))
	return res, nil
}

// record writes a history row. Failures are logged and never fail the request.
func (s *Service) record(ctx context.Context, u *url.URL, res Result, contentHash string) {
	id, err := s.ids.NewID()
	if err != nil {
		s.logger.Warn("history id generation failed", zap.Error(err))
		return
	}
	rec := history.Record{
		ID:           id,
		URL:          res.URL,
		Domain:       registrableDomain(u.Hostname()),
		CrawlMode:    res.CrawlMode.String(),
		Title:        res.Title,
		Emails:       res.Emails,
		PagesCrawled: res.PagesCrawled,
		ContentHash:  contentHash,
		CreatedAt:    s.clock.Now(),
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()
	if err := s.history.Save(writeCtx, rec); err != nil {
		s.logger.Warn("history write failed", zap.String("url", res.URL), zap.Error(err))
	}
}

// parseTarget accepts absolute http and https URLs with a host.
func parseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: errUnsupportedScheme}
	}
	if u.Hostname() == "" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: errMissingHost}
	}
	return u, nil
}

// registrableDomain returns eTLD+1 for host, or host itself for IPs and
// names publicsuffix cannot reduce (e.g. "localhost").
func registrableDomain(host string) string {
	host = strings.ToLower(host)
	if net.ParseIP(host) != nil {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
