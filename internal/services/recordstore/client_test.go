package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

func TestMonthQuery(t *testing.T) {
	q := monthQuery(2024, time.January, "SW220", "GGPC - Gunma Gohkin")

	wants := []string{
		`Date_Today >= "2024-01-01"`,
		`Date_Today <= "2024-01-31"`,
		`Consumption_Category = "SW220"`,
		`Plant_Location = "GGPC - Gunma Gohkin"`,
	}
	for _, w := range wants {
		if !strings.Contains(q, w) {
			t.Errorf("query %q missing %q", q, w)
		}
	}
}

func TestMonthQuery_LastDayPerMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  string
	}{
		{2024, time.February, `Date_Today <= "2024-02-29"`},
		{2023, time.February, `Date_Today <= "2023-02-28"`},
		{2024, time.April, `Date_Today <= "2024-04-30"`},
	}

	for _, tt := range tests {
		q := monthQuery(tt.year, tt.month, "", "")
		if !strings.Contains(q, tt.want) {
			t.Errorf("%d/%v: query %q missing %q", tt.year, tt.month, q, tt.want)
		}
	}
}

func TestMonthQuery_OmitsEmptyClauses(t *testing.T) {
	q := monthQuery(2024, time.January, "SW220", "")
	if strings.Contains(q, "Plant_Location") {
		t.Errorf("query %q should not filter by plant", q)
	}
}

func TestClientFetchMonth(t *testing.T) {
	var gotToken, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Cybozu-API-Token")
		gotQuery = r.URL.Query().Get("query")

		resp := recordsResponse{Records: []models.RawRecord{
			{
				models.FieldDate:     {Value: "2024-01-05"},
				models.FieldCategory: {Value: "SW220"},
				"Total_Consumed":     {Value: "12.5"},
			},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "12", "secret-token")
	records, err := client.FetchMonth(context.Background(), 2024, time.January, "SW220", "")
	if err != nil {
		t.Fatalf("FetchMonth() failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Num("Total_Consumed") != 12.5 {
		t.Errorf("Total_Consumed = %v", records[0].Num("Total_Consumed"))
	}
	if gotToken != "secret-token" {
		t.Errorf("token header = %q", gotToken)
	}
	if !strings.Contains(gotQuery, "order by Date_Today asc") {
		t.Errorf("query %q missing ordering", gotQuery)
	}
}

func TestClientFetchMonth_Pagination(t *testing.T) {
	var offsets []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")

		// Pull the offset from the query tail.
		parts := strings.Fields(query)
		offset, _ := strconv.Atoi(parts[len(parts)-1])
		offsets = append(offsets, offset)

		count := pageLimit
		if offset >= pageLimit {
			count = 3 // short final page
		}

		resp := recordsResponse{}
		for i := 0; i < count; i++ {
			day := 1 + (offset+i)%28
			resp.Records = append(resp.Records, models.RawRecord{
				models.FieldDate: {Value: fmt.Sprintf("2024-01-%02d", day)},
			})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "12", "tok")
	records, err := client.FetchMonth(context.Background(), 2024, time.January, "", "")
	if err != nil {
		t.Fatalf("FetchMonth() failed: %v", err)
	}

	if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != pageLimit {
		t.Errorf("offsets = %v, want [0 %d]", offsets, pageLimit)
	}
	if len(records) != pageLimit+3 {
		t.Errorf("got %d records, want %d", len(records), pageLimit+3)
	}
}

func TestClientFetchMonth_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid token"}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "12", "bad")
	if _, err := client.FetchMonth(context.Background(), 2024, time.January, "SW220", ""); err == nil {
		t.Error("FetchMonth() should fail on non-200 status")
	}
}

func TestClientFetchMonth_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "12", "tok")
	if _, err := client.FetchMonth(context.Background(), 2024, time.January, "SW220", ""); err == nil {
		t.Error("FetchMonth() should fail on malformed JSON")
	}
}
