package ieee

import (
	"net/http"
	"net/url"
	"testing"
)

func TestCookieJarAbsorbAndHeader(t *testing.T) {
	t.Parallel()

	jar, err := NewCookieJar()
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}

	if got := jar.Header("https://ieeexplore.ieee.org"); got != "" {
		t.Fatalf("expected empty header, got %q", got)
	}

	reqURL, _ := url.Parse("https://ieeexplore.ieee.org/rest/publication/home/metadata?pubid=1")
	resp := &http.Response{
		Header:  http.Header{"Set-Cookie": []string{"JSESSIONID=abc; Path=/", "ERIGHTS=xyz; Path=/"}},
		Request: &http.Request{URL: reqURL},
	}
	jar.Absorb(resp)

	got := jar.Header("https://ieeexplore.ieee.org")
	if got != "JSESSIONID=abc; ERIGHTS=xyz" {
		t.Fatalf("unexpected header: %q", got)
	}

	if other := jar.Header("https://example.org"); other != "" {
		t.Fatalf("cookies leaked to another origin: %q", other)
	}
}

func TestCookieJarIgnoresDetachedResponses(t *testing.T) {
	t.Parallel()

	jar, err := NewCookieJar()
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	jar.Absorb(nil)
	jar.Absorb(&http.Response{Header: http.Header{"Set-Cookie": []string{"a=b"}}})

	if got := jar.Header("not a url"); got != "" {
		t.Fatalf("expected empty header, got %q", got)
	}
}
