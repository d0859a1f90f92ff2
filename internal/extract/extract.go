// Package extract pulls email addresses out of fetched page content.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// ignoredPatterns reject matches that are asset filenames, automated senders or
// documentation placeholders rather than contact addresses.
var ignoredPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|svg|css|js|pdf)$`),
	regexp.MustCompile(`(?i)^(no-reply|noreply|donotreply)@`),
	regexp.MustCompile(`(?i)example\.(com|org)`),
}

var defaultFilter = NewFilter(nil)

// Filter extracts candidate addresses and drops the ones matching the fixed
// ignore rules or an operator-supplied domain blocklist.
type Filter struct {
	blocked *domainPatternBlocklist
}

// NewFilter builds a Filter. blockedDomains accepts exact hosts ("wixpress.com")
// and suffix wildcards ("*.sentry.io" or ".sentry.io"); it may be empty.
func NewFilter(blockedDomains []string) *Filter {
	return &Filter{blocked: newDomainPatternBlocklist(blockedDomains)}
}

// Emails returns the unique, filtered addresses found in content in
// lexicographic order. Matching is case-sensitive, so "a@b.com" and "A@B.COM"
// are reported separately. The result is never nil.
func (f *Filter) Emails(content string) []string {
	matches := emailPattern.FindAllString(content, -1)
	seen := make(map[string]struct{}, len(matches))
	emails := make([]string, 0, len(matches))
	for _, match := range matches {
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		if f.ignored(match) {
			continue
		}
		emails = append(emails, match)
	}
	sort.Strings(emails)
	return emails
}

func (f *Filter) ignored(email string) bool {
	for _, pattern := range ignoredPatterns {
		if pattern.MatchString(email) {
			return true
		}
	}
	if f == nil || f.blocked == nil {
		return false
	}
	return f.blocked.IsBlocked(domainOf(email))
}

// Emails runs the default Filter, which applies only the fixed ignore rules.
func Emails(content string) []string {
	return defaultFilter.Emails(content)
}

func domainOf(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return ""
	}
	return email[at+1:]
}
