package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmails(t *testing.T) {
	e := New()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "plain address",
			content: "Reach us at info@acme-gmbh.de for details",
			want:    []string{"info@acme-gmbh.de"},
		},
		{
			name:    "lower-cases and deduplicates",
			content: "Sales@Acme.de or sales@acme.de",
			want:    []string{"sales@acme.de"},
		},
		{
			name:    "filters noreply noise",
			content: "noreply@acme.de and support@acme.de",
			want:    []string{"support@acme.de"},
		},
		{
			name:    "filters placeholder domains",
			content: "test@example.com is shown in the form",
			want:    nil,
		},
		{
			name:    "filters image filename false positives",
			content: "photo@2x.png looks like an address",
			want:    nil,
		},
		{
			name:    "no addresses",
			content: "call us instead",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractEmails(tt.content))
		})
	}
}

func TestExtractPhones(t *testing.T) {
	e := New()

	t.Run("international number keeps plus", func(t *testing.T) {
		phones := e.ExtractPhones("Tel: +49 (0) 30 12345-67")
		require.Len(t, phones, 1)
		assert.Equal(t, "+490301234567", phones[0].Digits)
		assert.Equal(t, "+49 (0) 30 12345-67", phones[0].Display)
	})

	t.Run("short digit runs rejected", func(t *testing.T) {
		assert.Empty(t, e.ExtractPhones("Founded 12-34, room 555-01"))
	})

	t.Run("us format", func(t *testing.T) {
		phones := e.ExtractPhones("Call (212) 555-0147 today")
		require.Len(t, phones, 1)
		assert.Equal(t, "2125550147", phones[0].Digits)
	})

	t.Run("dedupes by digits", func(t *testing.T) {
		phones := e.ExtractPhones("030 1234567 and 030-1234567")
		assert.Len(t, phones, 1)
	})
}

func TestExtractNames(t *testing.T) {
	e := New()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "name next to role keyword",
			content: "Contact our CEO Hans Mueller for partnership requests.",
			want:    []string{"Hans Mueller"},
		},
		{
			name:    "title prefix kept",
			content: "Geschäftsführer: Dr. Anna Schmidt",
			want:    []string{"Dr. Anna Schmidt"},
		},
		{
			name:    "generic words rejected",
			content: "Contact Page Website Company for more",
			want:    nil,
		},
		{
			name:    "capitalized words far from keywords ignored",
			content: "Our CEO leads the firm. " + strings.Repeat("filler words about products and services. ", 5) + "Quarterly Numbers Overview appears much later.",
			want:    nil,
		},
		{
			name:    "single word is not a name",
			content: "Team lead: Mueller",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractNames(tt.content))
		})
	}
}

func TestExtractNamesRuneWidthChangingContent(t *testing.T) {
	e := New()

	// U+023A lower-cases to a wider encoding, so byte offsets in a
	// lowered copy of the text drift past the original's length.
	content := strings.Repeat("Ⱥ", 200) + " contact our CEO Hans Mueller"
	assert.Equal(t, []string{"Hans Mueller"}, e.ExtractNames(content))

	trailing := "our CEO Hans Mueller " + strings.Repeat("Ⱥ", 200)
	assert.Equal(t, []string{"Hans Mueller"}, e.ExtractNames(trailing))
}

func TestExtractNamesIdempotent(t *testing.T) {
	e := New()
	content := "Our team: CTO Maria Lopez and CFO Jan Kowalski"

	first := e.ExtractNames(content)
	second := e.ExtractNames(content)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "Maria Lopez")
	assert.Contains(t, first, "Jan Kowalski")
}

func TestExtractAddresses(t *testing.T) {
	e := New()

	t.Run("us street address", func(t *testing.T) {
		got := e.ExtractAddresses("Visit us at 123 Main Street, Springfield 62704")
		require.NotEmpty(t, got)
		assert.Contains(t, got[0], "123 Main Street")
	})

	t.Run("german street and postcode", func(t *testing.T) {
		got := e.ExtractAddresses("Acme GmbH, Hauptstraße 12, 10115 Berlin")
		require.NotEmpty(t, got)
		assert.Contains(t, got[0], "Hauptstraße 12")
	})

	t.Run("no address", func(t *testing.T) {
		assert.Empty(t, e.ExtractAddresses("write to us by email"))
	})
}

func TestSocialLinks(t *testing.T) {
	e := New()

	links := []Link{
		{URL: "https://www.linkedin.com/company/acme"},
		{URL: "https://www.xing.com/pages/acme"},
		{URL: "https://x.com/acme"},
		{URL: "https://acme.example/about"},
		{URL: "https://notlinkedin.com/acme"},
	}

	social := e.SocialLinks(links)
	assert.Equal(t, []string{
		"https://www.linkedin.com/company/acme",
		"https://www.xing.com/pages/acme",
		"https://x.com/acme",
	}, social)
}

func TestExtractLinks(t *testing.T) {
	e := New()

	body := []byte(`<html><body>
		<a href="/about">About us</a>
		<a href="https://other.example/partner">Partner</a>
		<a href="mailto:info@acme.example">Mail</a>
		<a href="tel:+493012345">Call</a>
		<a href="javascript:void(0)">Menu</a>
		<a href="#section">Jump</a>
		<a href="/about#team">About anchor</a>
	</body></html>`)

	links := e.ExtractLinks(body, "https://acme.example/start")

	var urls []string
	for _, l := range links {
		urls = append(urls, l.URL)
	}
	assert.Equal(t, []string{
		"https://acme.example/about",
		"https://other.example/partner",
	}, urls)
	assert.Equal(t, "About us", links[0].AnchorText)
}

func TestExtractCombinesTextAndMarkup(t *testing.T) {
	e := New()

	body := []byte(`<html><body>
		<main><p>Our office: Hauptstraße 12, 10115 Berlin</p></main>
		<footer><a href="mailto:office@acme-gmbh.de">office@acme-gmbh.de</a></footer>
	</body></html>`)

	facts, links := e.Extract(body, "https://acme-gmbh.de/")

	// The footer address lives in markup only; it must still be found.
	assert.Contains(t, facts.Emails, "office@acme-gmbh.de")
	assert.NotEmpty(t, facts.Addresses)
	assert.Empty(t, links) // mailto anchors are not navigational
}

func TestPageTextFallsBackOnPlainMarkup(t *testing.T) {
	e := New()

	body := []byte(`<html><head><script>var x = 1;</script></head>
		<body><div>hello world</div></body></html>`)

	text := e.PageText(body)
	assert.Contains(t, text, "hello world")
	assert.NotContains(t, text, "var x")
}
