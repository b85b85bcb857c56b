package respgen

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/getmockd/mockd/pkg/mapping"
	"github.com/getmockd/mockd/pkg/template"
)

// webhookClient is shared across dispatches; webhooks are not mTLS-aware,
// so no per-call client construction is needed the way the proxy path
// needs one for client certificates.
var webhookClient = &http.Client{Timeout: 10 * time.Second}

// DispatchWebhooks fires every webhook attached to a mapping. When
// fireAndForget is true the calls run in their own goroutines and errors
// are only logged; otherwise the caller's context governs and the first
// error is returned once every call has completed.
func DispatchWebhooks(ctx context.Context, webhooks []mapping.Webhook, req *mapping.RequestMessage, engine *template.Engine, fireAndForget bool, log *slog.Logger) error {
	if len(webhooks) == 0 {
		return nil
	}
	if fireAndForget {
		for _, wh := range webhooks {
			wh := wh
			go func() {
				if err := dispatchOne(context.Background(), wh, req, engine, log); err != nil && log != nil {
					log.Warn("webhook dispatch failed", "url", wh.URL, "error", err)
				}
			}()
		}
		return nil
	}
	var firstErr error
	for _, wh := range webhooks {
		if err := dispatchOne(ctx, wh, req, engine, log); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func dispatchOne(ctx context.Context, wh mapping.Webhook, req *mapping.RequestMessage, engine *template.Engine, log *slog.Logger) error {
	if wh.Delay > 0 {
		if !ApplyDelay(ctx, wh.Delay) {
			return ctx.Err()
		}
	}
	tctx := template.NewContext(req, nil)
	body := engine.Process(wh.Body, tctx)

	method := wh.Method
	if method == "" {
		method = http.MethodPost
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, wh.URL, bytes.NewBufferString(body))
	if err != nil {
		return err
	}
	for _, kv := range wh.Headers {
		httpReq.Header.Set(kv.Key, kv.Value)
	}

	resp, err := webhookClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
