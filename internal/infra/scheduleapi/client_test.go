package scheduleapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/comercial-bex/criativo-flow-sub009/internal/domain"
)

func TestReschedule_Success(t *testing.T) {
	target := time.Date(2026, 4, 20, 10, 30, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/functions/v1/reschedule-post" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req rescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.PostID != "post-1" {
			t.Errorf("post id: got %q, want %q", req.PostID, "post-1")
		}
		if req.ScheduledAt != target.Format(time.RFC3339) {
			t.Errorf("scheduled at: got %q, want %q", req.ScheduledAt, target.Format(time.RFC3339))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Reschedule(context.Background(), "post-1", target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReschedule_SlotConflict(t *testing.T) {
	suggested := time.Date(2026, 4, 21, 9, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorResponse{
			Error:             codeSlotConflict,
			Message:           "slot already taken",
			NextAvailableSlot: suggested.Format(time.RFC3339),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Reschedule(context.Background(), "post-1", time.Now())

	var conflict *SlotConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("got %v, want SlotConflictError", err)
	}
	if !conflict.SuggestedAt.Equal(suggested) {
		t.Errorf("suggested: got %v, want %v", conflict.SuggestedAt, suggested)
	}
}

func TestReschedule_ErrorCodeMapping(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{name: "past date", code: codePastDate, wantErr: domain.ErrPastDate},
		{name: "published locked", code: codePublishedLocked, wantErr: domain.ErrPostPublished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(errorResponse{Error: tt.code, Message: "rejected"})
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			err := c.Reschedule(context.Background(), "post-1", time.Now())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReschedule_UnknownErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Reschedule(context.Background(), "post-1", time.Now()); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
