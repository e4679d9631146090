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

const topcvBaseURL = "https://www.topcv.vn"

// TopCVFetcher scrapes search-result pages from topcv.vn.
type TopCVFetcher struct {
	baseURL string
	client  *Client
	logger  *slog.Logger
}

// NewTopCVFetcher creates a fetcher for TopCV. baseURL overrides the
// production endpoint for tests; pass "" for the default.
func NewTopCVFetcher(client *Client, baseURL string, logger *slog.Logger) *TopCVFetcher {
	if baseURL == "" {
		baseURL = topcvBaseURL
	}
	return &TopCVFetcher{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// FetchPage retrieves one listing page of search results and hydrates each
// listing with its detail page. A detail page that fails non-fatally yields a
// record with listing fields only.
func (f *TopCVFetcher) FetchPage(ctx context.Context, query string, page int) ([]model.RawJob, error) {
	listURL := fmt.Sprintf("%s/tim-viec-lam-%s", f.baseURL, url.QueryEscape(query))
	if page > 1 {
		listURL = fmt.Sprintf("%s?page=%d", listURL, page)
	}

	doc, err := f.client.GetDocument(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("topcv page %d: %w", page, err)
	}

	var jobs []model.RawJob
	doc.Find("div.job-item-search-result").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("h3.title a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		href = absoluteURL(f.baseURL, strings.TrimSpace(href))
		if !strings.Contains(href, "/viec-lam/") {
			return
		}

		jobs = append(jobs, model.RawJob{
			Source:     "topcv",
			NativeID:   nativeIDFromURL(href),
			URL:        href,
			Title:      cleanText(link.Text()),
			Company:    cleanText(item.Find("a.company").First().Text()),
			Location:   cleanText(item.Find(".address .city-text").First().Text()),
			SalaryText: cleanText(item.Find(".title-salary").First().Text()),
			FetchedAt:  time.Now().UTC(),
		})
	})

	for i := range jobs {
		if err := f.hydrate(ctx, &jobs[i]); err != nil {
			if model.IsFatal(err) || ctx.Err() != nil {
				return jobs[:i], err
			}
			f.logger.Debug("detail fetch failed, keeping listing fields",
				"source", "topcv", "url", jobs[i].URL, "error", err)
		}
	}

	return jobs, nil
}

func (f *TopCVFetcher) hydrate(ctx context.Context, j *model.RawJob) error {
	doc, err := f.client.GetDocument(ctx, j.URL)
	if err != nil {
		return err
	}

	if t := cleanText(doc.Find("h1.job-detail__info--title").First().Text()); t != "" {
		j.Title = t
	}
	j.Description = cleanText(doc.Find("div.job-detail__information-detail").First().Text())
	j.PostedText = cleanText(doc.Find(".job-detail__info--deadline").First().Text())
	if j.SalaryText == "" {
		j.SalaryText = cleanText(doc.Find(".job-detail__info--section-content-value").First().Text())
	}
	return nil
}
