package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contactsmith/contactsmith/pkg/extractor"
)

func acmeDomains() map[string]bool {
	return map[string]bool{"acme.example": true}
}

func TestClassifyLinksContactKeywords(t *testing.T) {
	tests := []struct {
		name    string
		link    extractor.Link
		contact bool
	}{
		{
			name:    "contact path",
			link:    extractor.Link{URL: "https://acme.example/contact-us"},
			contact: true,
		},
		{
			name:    "german impressum",
			link:    extractor.Link{URL: "https://acme.example/impressum"},
			contact: true,
		},
		{
			name:    "keyword in anchor text only",
			link:    extractor.Link{URL: "https://acme.example/page-17", AnchorText: "Our Team"},
			contact: true,
		},
		{
			name:    "keyword inside longer word",
			link:    extractor.Link{URL: "https://acme.example/contactless-payments"},
			contact: true,
		},
		{
			name:    "uppercase path",
			link:    extractor.Link{URL: "https://acme.example/KONTAKT"},
			contact: true,
		},
		{
			name:    "plain product page",
			link:    extractor.Link{URL: "https://acme.example/products", AnchorText: "Products"},
			contact: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact, internal := classifyLinks([]extractor.Link{tt.link}, acmeDomains())
			if tt.contact {
				assert.Len(t, contact, 1)
				assert.Empty(t, internal)
			} else {
				assert.Empty(t, contact)
				assert.Len(t, internal, 1)
			}
		})
	}
}

func TestClassifyLinksDropsExternalDomains(t *testing.T) {
	links := []extractor.Link{
		{URL: "https://other.example/contact", AnchorText: "Contact"},
		{URL: "https://acme.example/news"},
	}

	contact, internal := classifyLinks(links, acmeDomains())

	// External links are discarded even when they match a contact keyword.
	assert.Empty(t, contact)
	assert.Equal(t, []string{"https://acme.example/news"}, internal)
}

func TestClassifyLinksWWWAliasIsInternal(t *testing.T) {
	links := []extractor.Link{
		{URL: "https://www.acme.example/about"},
	}

	contact, _ := classifyLinks(links, acmeDomains())
	assert.Len(t, contact, 1)
}

func TestClassifyLinksDropsNonContentAssets(t *testing.T) {
	links := []extractor.Link{
		{URL: "https://acme.example/brochure.pdf", AnchorText: "Contact brochure"},
		{URL: "https://acme.example/logo.png"},
		{URL: "https://acme.example/styles.css"},
	}

	contact, internal := classifyLinks(links, acmeDomains())
	assert.Empty(t, contact)
	assert.Empty(t, internal)
}

func TestClassifyLinksKeepsDiscoveryOrder(t *testing.T) {
	links := []extractor.Link{
		{URL: "https://acme.example/b"},
		{URL: "https://acme.example/a"},
		{URL: "https://acme.example/c"},
	}

	_, internal := classifyLinks(links, acmeDomains())
	assert.Equal(t, []string{
		"https://acme.example/b",
		"https://acme.example/a",
		"https://acme.example/c",
	}, internal)
}
