package network

import (
	"errors"
	"testing"
	"time"
)

func TestRotatorCyclesProxies(t *testing.T) {
	rotator, err := NewRotator([]string{"http://a:1", "http://b:2"}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}

	var got []string
	for i := 0; i < 3; i++ {
		proxy, err := rotator.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, proxy.Host)
	}
	want := []string{"a:1", "b:2", "a:1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Next() sequence = %v, want %v", got, want)
		}
	}
}

func TestRotatorBansOnBlockStatus(t *testing.T) {
	rotator, err := NewRotator([]string{"http://a:1", "http://b:2"}, time.Hour)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}

	first, _ := rotator.Next()
	rotator.Report(first, 429)

	for i := 0; i < 3; i++ {
		proxy, err := rotator.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if proxy.Host == first.Host {
			t.Fatalf("banned proxy %s returned", first.Host)
		}
	}

	second, _ := rotator.Next()
	rotator.Report(second, 403)
	if _, err := rotator.Next(); !errors.Is(err, ErrNoProxies) {
		t.Fatalf("Next() error = %v, want ErrNoProxies", err)
	}
}

func TestRotatorIgnoresOtherStatuses(t *testing.T) {
	rotator, err := NewRotator([]string{"http://a:1"}, time.Hour)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}
	proxy, _ := rotator.Next()
	rotator.Report(proxy, 404)
	if _, err := rotator.Next(); err != nil {
		t.Fatalf("Next() error = %v after 404", err)
	}
}

func TestRotatorEmpty(t *testing.T) {
	rotator, err := NewRotator(nil, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}
	if rotator.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", rotator.Len())
	}
	if _, err := rotator.Next(); !errors.Is(err, ErrNoProxies) {
		t.Fatalf("Next() error = %v, want ErrNoProxies", err)
	}
}
