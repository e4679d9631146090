package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const vieclam24hListHTML = `<!DOCTYPE html>
<html><body>
<a target="_blank" href="/viec-lam/nhan-vien-phan-tich-du-lieu-9981234" title="Nhân viên phân tích dữ liệu">card</a>
<a target="_blank" href="/viec-lam/ke-toan-tong-hop-9985678" title="Kế toán tổng hợp">card</a>
<a target="_blank" href="/viec-lam/nhan-vien-phan-tich-du-lieu-9981234" title="Nhân viên phân tích dữ liệu">duplicate card</a>
<a href="/ve-chung-toi">not a job link</a>
</body></html>`

const vieclam24hDetailHTML = `<!DOCTYPE html>
<html><body>
<div class="text-24 font-bold leading-10">Nhân viên phân tích dữ liệu</div>
<div class="text-14 font-normal leading-6">Đăng 3 ngày trước</div>
<div class="job-description">Xử lý dữ liệu với Excel và SQL, trực quan hóa bằng Power BI.</div>
</body></html>`

func TestVieclam24hFetchPage_ParsesListingAndDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/tim-kiem-viec-lam-nhanh") {
			w.Write([]byte(vieclam24hListHTML))
			return
		}
		w.Write([]byte(vieclam24hDetailHTML))
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 100, 10)
	f := NewVieclam24hFetcher(client, srv.URL, discardLogger())

	jobs, err := f.FetchPage(context.Background(), "phân tích dữ liệu", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two unique job links; the duplicate and the non-job anchor are dropped.
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Source != "vieclam24h" {
		t.Errorf("expected source vieclam24h, got %s", j.Source)
	}
	if j.NativeID != "9981234" {
		t.Errorf("expected native ID 9981234, got %s", j.NativeID)
	}
	if j.Title != "Nhân viên phân tích dữ liệu" {
		t.Errorf("unexpected title: %q", j.Title)
	}
	if j.PostedText != "Đăng 3 ngày trước" {
		t.Errorf("unexpected posted text: %q", j.PostedText)
	}
	if !strings.Contains(j.Description, "Power BI") {
		t.Errorf("detail description not hydrated: %q", j.Description)
	}
}

func TestNativeIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.topcv.vn/viec-lam/data-analyst-1654321.html", "1654321"},
		{"https://vieclam24h.vn/viec-lam/ke-toan-9985678", "9985678"},
		{"https://www.careerviet.vn/vi/tim-viec-lam/data-analyst.35C1A2B3.html", "data-analyst.35C1A2B3"},
	}
	for _, tt := range tests {
		if got := nativeIDFromURL(tt.url); got != tt.want {
			t.Errorf("nativeIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
