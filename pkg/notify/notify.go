// Package notify sends suite run results to telegram, email, slack, webhooks or a custom script.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	ntfy "github.com/go-pkgz/notify"

	"github.com/umputun/nbcheck/pkg/runner"
)

// Params holds configuration for creating a notification Service.
// embedded directly in config.Values, notify_* keys map onto these fields.
type Params struct {
	Channels      []string
	OnError       bool
	OnComplete    bool
	TimeoutMs     int
	TelegramToken string
	TelegramChat  string
	SlackToken    string
	SlackChannel  string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPStartTLS  bool
	EmailFrom     string
	EmailTo       []string
	WebhookURLs   []string
	CustomScript  string
}

// Service sends suite results to the configured channels.
type Service struct {
	channels   []channel
	custom     *customChannel // optional custom script channel
	onError    bool
	onComplete bool
	timeout    time.Duration
	hostname   string // resolved once at creation via os.Hostname()
	log        logger
}

// channel is one go-pkgz/notify destination with its own message markup.
type channel struct {
	name     string
	notifier ntfy.Notifier
	dest     func(r Result) string
	render   func(m message) string
}

// logger interface for dependency injection.
type logger interface {
	Print(format string, args ...any)
}

// Result holds suite run data for notifications.
type Result struct {
	Status    string           `json:"status"` // "success" or "failure"
	Suite     string           `json:"suite"`
	BaseURL   string           `json:"base_url"`
	Driver    string           `json:"driver"`
	Duration  string           `json:"duration"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Scenarios []ScenarioResult `json:"scenarios,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// ScenarioResult is the per-scenario part of Result.
type ScenarioResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewResult builds a notification Result from a suite run.
// the token query parameter is never part of BaseURL, callers pass the bare server url.
func NewResult(res runner.SuiteResult, baseURL, driver string) Result {
	r := Result{
		Status:   "success",
		Suite:    res.Suite,
		BaseURL:  baseURL,
		Driver:   driver,
		Duration: res.Duration.Round(time.Second).String(),
		Passed:   res.Passed(),
		Failed:   res.FailedCount(),
	}
	if res.Status == runner.StatusFail {
		r.Status = "failure"
	}
	if res.Err != nil {
		r.Error = res.Err.Error()
	}
	for _, sr := range res.Scenarios {
		item := ScenarioResult{Name: sr.Scenario, Status: string(sr.Status)}
		if sr.Err != nil {
			item.Error = sr.Err.Error()
			if r.Error == "" {
				r.Error = sr.Scenario + ": " + item.Error
			}
		}
		r.Scenarios = append(r.Scenarios, item)
	}
	return r
}

// channelBuilders makes channels by notify_channels name. a builder may return no channels
// with a nil error when the channel is configured but unreachable.
var channelBuilders = map[string]func(p Params, log logger) ([]channel, error){
	"telegram": buildTelegram,
	"email":    buildEmail,
	"slack":    buildSlack,
	"webhook":  buildWebhooks,
}

// New creates a notification Service from the given Params.
// returns nil, nil if no channels are configured, Send is nil-safe.
// misconfigured channels are errors, unreachable ones are logged and skipped.
func New(p Params, log logger) (*Service, error) {
	if len(p.Channels) == 0 {
		return nil, nil //nolint:nilnil // nil service means no channels
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	svc := &Service{
		onError:    p.OnError,
		onComplete: p.OnComplete,
		timeout:    time.Duration(p.TimeoutMs) * time.Millisecond,
		hostname:   hostname,
		log:        log,
	}
	if svc.timeout <= 0 {
		svc.timeout = 10 * time.Second
	}

	for _, name := range p.Channels {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "custom" {
			if p.CustomScript == "" {
				return nil, errors.New("custom channel: notify_custom_script is required")
			}
			svc.custom = newCustomChannel(p.CustomScript)
			continue
		}
		build, ok := channelBuilders[name]
		if !ok {
			return nil, fmt.Errorf("unknown notification channel: %q", name)
		}
		chs, err := build(p, log)
		if err != nil {
			return nil, fmt.Errorf("%s channel: %w", name, err)
		}
		svc.channels = append(svc.channels, chs...)
	}

	if len(svc.channels) == 0 && svc.custom == nil {
		log.Print("[WARN] all notification channels were disabled due to initialization errors")
	}
	return svc, nil
}

// Send notifies all channels about r when its status is enabled by on_error/on_complete.
// nil-safe, best-effort: failures are logged, never returned.
func (s *Service) Send(ctx context.Context, r Result) {
	if s == nil {
		return
	}
	if (r.Status == "success" && !s.onComplete) || (r.Status == "failure" && !s.onError) {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	m := s.message(r)
	for _, ch := range s.channels {
		if err := ch.notifier.Send(sendCtx, ch.dest(r), ch.render(m)); err != nil {
			s.log.Print("[WARN] %s notification failed: %v", ch.name, err)
		}
	}
	if s.custom != nil {
		if err := s.custom.send(sendCtx, r); err != nil {
			s.log.Print("[WARN] custom notification failed: %v", err)
		}
	}
}

// message is a rendered-agnostic notification: a headline, key/value facts and failures.
type message struct {
	headline string
	facts    [][2]string
	failures [][2]string // scenario name, error
}

func (s *Service) message(r Result) message {
	m := message{headline: fmt.Sprintf("nbcheck passed on %s", s.hostname)}
	if r.Status != "success" {
		m.headline = fmt.Sprintf("nbcheck failed on %s", s.hostname)
	}
	for _, f := range [][2]string{{"suite", r.Suite}, {"server", r.BaseURL}, {"driver", r.Driver}, {"duration", r.Duration}} {
		if f[1] != "" {
			m.facts = append(m.facts, f)
		}
	}
	m.facts = append(m.facts, [2]string{"result", fmt.Sprintf("%d passed, %d failed", r.Passed, r.Failed)})
	for _, sc := range r.Scenarios {
		if sc.Status == "fail" {
			m.failures = append(m.failures, [2]string{sc.Name, sc.Error})
		}
	}
	// an error without failed scenarios means the run itself broke
	if r.Error != "" && r.Failed == 0 {
		m.facts = append(m.facts, [2]string{"error", r.Error})
	}
	return m
}

// renderText renders m as aligned plain text.
func renderText(m message) string {
	var b strings.Builder
	b.WriteString(m.headline + "\n\n")
	for _, f := range m.facts {
		fmt.Fprintf(&b, "%-9s %s\n", f[0]+":", f[1])
	}
	for _, f := range m.failures {
		fmt.Fprintf(&b, "  - %s: %s\n", f[0], f[1])
	}
	return b.String()
}

// renderHTML renders m for telegram's HTML parse mode.
func renderHTML(m message) string {
	var b strings.Builder
	b.WriteString("<b>" + html.EscapeString(m.headline) + "</b>\n\n")
	for _, f := range m.facts {
		fmt.Fprintf(&b, "%s: %s\n", f[0], html.EscapeString(f[1]))
	}
	for _, f := range m.failures {
		fmt.Fprintf(&b, "  - <b>%s</b>: <code>%s</code>\n", html.EscapeString(f[0]), html.EscapeString(f[1]))
	}
	return b.String()
}

// renderSlack renders m as slack mrkdwn.
func renderSlack(m message) string {
	var b strings.Builder
	b.WriteString("*" + m.headline + "*\n")
	for _, f := range m.facts {
		fmt.Fprintf(&b, "%s: %s\n", f[0], f[1])
	}
	for _, f := range m.failures {
		fmt.Fprintf(&b, "• *%s*: `%s`\n", f[0], strings.ReplaceAll(f[1], "`", "'"))
	}
	return b.String()
}

// emailSubject summarizes r for the mail subject line.
func emailSubject(r Result) string {
	if r.Status == "success" {
		return fmt.Sprintf("nbcheck %s: passed", r.Suite)
	}
	return fmt.Sprintf("nbcheck %s: %d of %d failed", r.Suite, r.Failed, r.Passed+r.Failed)
}

func fixedDest(dest string) func(Result) string {
	return func(Result) string { return dest }
}

// telegramNotifier creates the telegram notifier, overridden in tests to avoid live api calls.
var telegramNotifier = func(token string) (ntfy.Notifier, error) {
	return ntfy.NewTelegram(ntfy.TelegramParams{Token: token})
}

// buildTelegram sends html messages to telegram:<chat>. the notifier verifies the token with a
// live api call, failures disable the channel with a redacted warning.
func buildTelegram(p Params, log logger) ([]channel, error) {
	if p.TelegramToken == "" {
		return nil, errors.New("notify_telegram_token is required")
	}
	if p.TelegramChat == "" {
		return nil, errors.New("notify_telegram_chat is required")
	}
	tg, err := telegramNotifier(p.TelegramToken)
	if err != nil {
		msg := strings.ReplaceAll(err.Error(), p.TelegramToken, "[REDACTED]")
		log.Print("[WARN] telegram channel disabled: %s", msg)
		return nil, nil
	}
	dest := fmt.Sprintf("telegram:%s?parseMode=HTML", p.TelegramChat)
	return []channel{{name: "telegram", notifier: tg, dest: fixedDest(dest), render: renderHTML}}, nil
}

// buildEmail sends plain text mail with a per-result subject.
func buildEmail(p Params, _ logger) ([]channel, error) {
	switch {
	case p.SMTPHost == "":
		return nil, errors.New("notify_smtp_host is required")
	case p.EmailFrom == "":
		return nil, errors.New("notify_email_from is required")
	case len(p.EmailTo) == 0:
		return nil, errors.New("notify_email_to is required")
	}

	em := ntfy.NewEmail(ntfy.SMTPParams{
		Host:     p.SMTPHost,
		Port:     p.SMTPPort,
		Username: p.SMTPUsername,
		Password: p.SMTPPassword,
		StartTLS: p.SMTPStartTLS,
	})
	to := strings.Join(p.EmailTo, ",")
	dest := func(r Result) string {
		return fmt.Sprintf("mailto:%s?from=%s&subject=%s", to, url.QueryEscape(p.EmailFrom), url.QueryEscape(emailSubject(r)))
	}
	return []channel{{name: "email", notifier: em, dest: dest, render: renderText}}, nil
}

// buildSlack posts mrkdwn to slack:<channel>.
func buildSlack(p Params, _ logger) ([]channel, error) {
	if p.SlackToken == "" {
		return nil, errors.New("notify_slack_token is required")
	}
	if p.SlackChannel == "" {
		return nil, errors.New("notify_slack_channel is required")
	}
	return []channel{{name: "slack", notifier: ntfy.NewSlack(p.SlackToken), dest: fixedDest("slack:" + p.SlackChannel),
		render: renderSlack}}, nil
}

// buildWebhooks posts plain text to every url, duplicates dropped.
func buildWebhooks(p Params, _ logger) ([]channel, error) {
	if len(p.WebhookURLs) == 0 {
		return nil, errors.New("notify_webhook_urls is required")
	}
	wh := ntfy.NewWebhook(ntfy.WebhookParams{})
	urls := slices.Compact(slices.Sorted(slices.Values(p.WebhookURLs)))
	res := make([]channel, 0, len(urls))
	for _, u := range urls {
		res = append(res, channel{name: "webhook", notifier: wh, dest: fixedDest(u), render: renderText})
	}
	return res, nil
}
