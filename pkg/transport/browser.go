package transport

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/richard-senior/soccerprediction/internal/logger"
)

// RenderHtml loads htmlUrl in headless Chromium and returns the page source once
// the network has gone quiet. Some results pages only build their tables in javascript.
// Requires the playwright browsers to be installed (see playwright.Install).
func RenderHtml(ctx context.Context, htmlUrl string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	defer func() {
		if err := pw.Stop(); err != nil {
			logger.Warn("Failed to stop playwright", err)
		}
	}()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	logger.Inform("Rendering", htmlUrl)
	if _, err := page.Goto(htmlUrl, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", htmlUrl, err)
	}

	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return []byte(content), nil
}
