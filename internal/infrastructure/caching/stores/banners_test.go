package stores

import (
	"testing"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
)

func newClockedStore(ttl time.Duration) (*BannerStore, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewBannerStore(ttl, logging.NewDiscardLogger())
	s.now = func() time.Time { return now }
	return s, &now
}

func TestBannerStoreExpiry(t *testing.T) {
	s, now := newClockedStore(time.Minute)
	s.SetBannerIfCurrent(&banner.Banner{ID: "a"}, s.Generation())

	if _, ok := s.GetBanner("a"); !ok {
		t.Fatalf("fresh entry should hit")
	}
	*now = now.Add(2 * time.Minute)
	if _, ok := s.GetBanner("a"); ok {
		t.Fatalf("expired entry should miss")
	}
	if n := s.PurgeExpired(*now); n != 1 {
		t.Fatalf("purged = %d, want 1", n)
	}
	if st := s.Stats(); st.Banners != 0 || st.Hits != 1 || st.Misses != 1 || st.HitRatio != 0.5 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestBannerStoreActiveListInvalidation(t *testing.T) {
	s, _ := newClockedStore(time.Minute)

	if _, ok := s.GetActiveList(); ok {
		t.Fatalf("empty store should miss")
	}
	s.SetActiveListIfCurrent(nil, s.Generation())
	list, ok := s.GetActiveList()
	if !ok || list == nil || len(list) != 0 {
		t.Fatalf("an empty active list is a valid cached value")
	}

	s.SetActiveListIfCurrent([]*banner.Banner{{ID: "a"}, {ID: "b"}}, s.Generation())
	if _, ok := s.GetBanner("b"); !ok {
		t.Fatalf("active list members should be cached individually")
	}

	s.InvalidateBanner("b")
	if _, ok := s.GetActiveList(); ok {
		t.Fatalf("invalidating a member must drop the active list")
	}
	if _, ok := s.GetBanner("a"); !ok {
		t.Fatalf("other banners should survive")
	}

	s.InvalidateAll()
	if _, ok := s.GetBanner("a"); ok {
		t.Fatalf("InvalidateAll should clear every banner")
	}
}

func TestBannerStoreSetIfCurrent(t *testing.T) {
	tests := []struct {
		name       string
		invalidate func(s *BannerStore)
		wantStored bool
	}{
		{name: "no write in between", invalidate: func(*BannerStore) {}, wantStored: true},
		{name: "banner invalidated", invalidate: func(s *BannerStore) { s.InvalidateBanner("a") }, wantStored: false},
		{name: "store cleared", invalidate: func(s *BannerStore) { s.InvalidateAll() }, wantStored: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newClockedStore(time.Minute)
			gen := s.Generation()
			tt.invalidate(s)

			if got := s.SetBannerIfCurrent(&banner.Banner{ID: "a"}, gen); got != tt.wantStored {
				t.Fatalf("SetBannerIfCurrent = %v, want %v", got, tt.wantStored)
			}
			if _, ok := s.GetBanner("a"); ok != tt.wantStored {
				t.Fatalf("banner cached = %v, want %v", ok, tt.wantStored)
			}
			if got := s.SetActiveListIfCurrent([]*banner.Banner{{ID: "b"}}, gen); got != tt.wantStored {
				t.Fatalf("SetActiveListIfCurrent = %v, want %v", got, tt.wantStored)
			}
			if _, ok := s.GetActiveList(); ok != tt.wantStored {
				t.Fatalf("active list cached = %v, want %v", ok, tt.wantStored)
			}
		})
	}
}

func TestBannerStoreZeroTTLNeverExpires(t *testing.T) {
	s, now := newClockedStore(0)
	s.SetBannerIfCurrent(&banner.Banner{ID: "a"}, s.Generation())
	*now = now.Add(24 * time.Hour)

	if _, ok := s.GetBanner("a"); !ok {
		t.Fatalf("zero ttl should keep entries")
	}
	if n := s.PurgeExpired(*now); n != 0 {
		t.Fatalf("purged = %d", n)
	}
}
