package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/minhtran99/jobflow/internal/model"
)

const vieclam24hBaseURL = "https://vieclam24h.vn"

// Vieclam24hFetcher scrapes search-result pages from vieclam24h.vn. The site
// is a Tailwind SPA-ish render, so listing cards are identified by their
// outbound detail links rather than semantic classes.
type Vieclam24hFetcher struct {
	baseURL string
	client  *Client
	logger  *slog.Logger
}

// NewVieclam24hFetcher creates a fetcher for Vieclam24h. baseURL overrides
// the production endpoint for tests; pass "" for the default.
func NewVieclam24hFetcher(client *Client, baseURL string, logger *slog.Logger) *Vieclam24hFetcher {
	if baseURL == "" {
		baseURL = vieclam24hBaseURL
	}
	return &Vieclam24hFetcher{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// FetchPage retrieves one listing page of search results.
func (f *Vieclam24hFetcher) FetchPage(ctx context.Context, query string, page int) ([]model.RawJob, error) {
	q := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	listURL := fmt.Sprintf("%s/tim-kiem-viec-lam-nhanh?q=%s", f.baseURL, q)
	if page > 1 {
		listURL = fmt.Sprintf("%s/tim-kiem-viec-lam-nhanh?page=%d&q=%s", f.baseURL, page, q)
	}

	doc, err := f.client.GetDocument(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("vieclam24h page %d: %w", page, err)
	}

	seen := make(map[string]bool)
	var jobs []model.RawJob
	doc.Find(`a[target="_blank"]`).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = absoluteURL(f.baseURL, strings.TrimSpace(href))
		if !strings.Contains(href, "vieclam24h.vn") && !strings.HasPrefix(href, f.baseURL) {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true

		jobs = append(jobs, model.RawJob{
			Source:    "vieclam24h",
			NativeID:  nativeIDFromURL(href),
			URL:       href,
			Title:     cleanText(a.AttrOr("title", "")),
			FetchedAt: time.Now().UTC(),
		})
	})

	for i := range jobs {
		if err := f.hydrate(ctx, &jobs[i]); err != nil {
			if model.IsFatal(err) || ctx.Err() != nil {
				return jobs[:i], err
			}
			f.logger.Debug("detail fetch failed, keeping listing fields",
				"source", "vieclam24h", "url", jobs[i].URL, "error", err)
		}
	}

	return jobs, nil
}

func (f *Vieclam24hFetcher) hydrate(ctx context.Context, j *model.RawJob) error {
	doc, err := f.client.GetDocument(ctx, j.URL)
	if err != nil {
		return err
	}

	if t := cleanText(doc.Find("div.text-24.font-bold").First().Text()); t != "" {
		j.Title = t
	} else if t := cleanText(doc.Find("h1").First().Text()); t != "" {
		j.Title = t
	}
	j.Company = cleanText(doc.Find("div.company-name, a.company-name").First().Text())
	j.PostedText = cleanText(doc.Find("div.text-14.font-normal.leading-6").First().Text())
	j.SalaryText = cleanText(doc.Find("div.salary-text, span.salary").First().Text())
	j.Description = cleanText(doc.Find("div.job-description").First().Text())
	if j.Description == "" {
		j.Description = cleanText(doc.Find("div.flex.flex-col.gap-8").First().Text())
	}
	return nil
}
