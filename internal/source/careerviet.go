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

const careervietBaseURL = "https://www.careerviet.vn"

// CareerVietFetcher scrapes search-result pages from careerviet.vn.
type CareerVietFetcher struct {
	baseURL string
	client  *Client
	logger  *slog.Logger
}

// NewCareerVietFetcher creates a fetcher for CareerViet. baseURL overrides the
// production endpoint for tests; pass "" for the default.
func NewCareerVietFetcher(client *Client, baseURL string, logger *slog.Logger) *CareerVietFetcher {
	if baseURL == "" {
		baseURL = careervietBaseURL
	}
	return &CareerVietFetcher{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// FetchPage retrieves one listing page of search results. CareerViet encodes
// the page number in the path ("-k-trang-2-vi.html").
func (f *CareerVietFetcher) FetchPage(ctx context.Context, query string, page int) ([]model.RawJob, error) {
	encoded := url.QueryEscape(query)
	listURL := fmt.Sprintf("%s/viec-lam/%s-k-vi.html", f.baseURL, encoded)
	if page > 1 {
		listURL = fmt.Sprintf("%s/viec-lam/%s-k-trang-%d-vi.html", f.baseURL, encoded, page)
	}

	doc, err := f.client.GetDocument(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("careerviet page %d: %w", page, err)
	}

	var jobs []model.RawJob
	doc.Find("div.job-item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a.job_link").First()
		if link.Length() == 0 {
			// Older markup: the second anchor in the card is the job link.
			link = item.Find("a").Eq(1)
		}
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		href = absoluteURL(f.baseURL, strings.TrimSpace(href))
		if href == "" {
			return
		}

		title := cleanText(link.AttrOr("title", ""))
		if title == "" {
			title = cleanText(link.Text())
		}

		jobs = append(jobs, model.RawJob{
			Source:     "careerviet",
			NativeID:   nativeIDFromURL(href),
			URL:        href,
			Title:      title,
			Company:    cleanText(item.Find(".company-name").First().Text()),
			Location:   cleanText(item.Find(".location ul li").First().Text()),
			SalaryText: cleanText(item.Find(".salary p").First().Text()),
			PostedText: cleanText(item.Find(".time ul li time").First().Text()),
			FetchedAt:  time.Now().UTC(),
		})
	})

	for i := range jobs {
		if err := f.hydrate(ctx, &jobs[i]); err != nil {
			if model.IsFatal(err) || ctx.Err() != nil {
				return jobs[:i], err
			}
			f.logger.Debug("detail fetch failed, keeping listing fields",
				"source", "careerviet", "url", jobs[i].URL, "error", err)
		}
	}

	return jobs, nil
}

func (f *CareerVietFetcher) hydrate(ctx context.Context, j *model.RawJob) error {
	doc, err := f.client.GetDocument(ctx, j.URL)
	if err != nil {
		return err
	}

	j.Description = cleanText(doc.Find("section.job-detail-content").First().Text())
	if t := cleanText(doc.Find("h1.title").First().Text()); t != "" {
		j.Title = t
	}
	return nil
}
