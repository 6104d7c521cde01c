package extractor

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/contactsmith/contactsmith/internal/models"
)

// Facts holds everything extracted from a single page. Slices keep the
// order of discovery and are deduplicated within the page.
type Facts struct {
	Emails      []string
	Phones      []models.Phone
	Names       []string
	Addresses   []string
	SocialLinks []string
}

// Link is one outbound anchor with its resolved absolute URL.
type Link struct {
	URL        string
	AnchorText string
}

// Extractor pulls contact facts out of fetched page content. It is
// stateless and safe for concurrent use.
type Extractor struct{}

// New creates a new Extractor instance
func New() *Extractor {
	return &Extractor{}
}

// Extract runs all fact extractions over one page and returns the facts
// together with the page's outbound links. body is the raw HTML response.
// Extraction never fails; malformed input yields fewer facts.
func (e *Extractor) Extract(body []byte, pageURL string) (Facts, []Link) {
	text := e.PageText(body)
	// Raw markup catches mailto: hrefs and footer content trafilatura drops.
	combined := text + "\n" + string(body)

	links := e.ExtractLinks(body, pageURL)

	facts := Facts{
		Emails:      e.ExtractEmails(combined),
		Phones:      e.ExtractPhones(text),
		Names:       e.ExtractNames(text),
		Addresses:   e.ExtractAddresses(text),
		SocialLinks: e.SocialLinks(links),
	}
	return facts, links
}

// PageText extracts clean text from HTML using trafilatura, falling back
// to a plain node walk when the article extractor finds nothing.
func (e *Extractor) PageText(body []byte) string {
	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{})
	if err == nil && result != nil && result.ContentText != "" {
		return result.ContentText
	}
	return fallbackText(body)
}

// ExtractEmails finds email addresses, drops noise matches and stores
// them lower-cased.
func (e *Extractor) ExtractEmails(content string) []string {
	var emails []string
	seen := make(map[string]bool)
	for _, match := range emailRegex.FindAllString(content, -1) {
		addr := strings.ToLower(match)
		if isNoiseEmail(addr) {
			continue
		}
		if !seen[addr] {
			seen[addr] = true
			emails = append(emails, addr)
		}
	}
	return emails
}

func isNoiseEmail(addr string) bool {
	for _, noise := range emailNoise {
		if strings.Contains(addr, noise) {
			return true
		}
	}
	return false
}

// ExtractPhones finds phone-shaped digit groups. Matches normalize to a
// digit string (leading + preserved); anything shorter than seven digits
// is discarded as noise.
func (e *Extractor) ExtractPhones(content string) []models.Phone {
	var phones []models.Phone
	seen := make(map[string]bool)
	for _, match := range phoneRegex.FindAllString(content, -1) {
		digits := normalizePhone(match)
		if digitCount(digits) < minPhoneDigits {
			continue
		}
		if !seen[digits] {
			seen[digits] = true
			phones = append(phones, models.Phone{Digits: digits, Display: strings.TrimSpace(match)})
		}
	}
	return phones
}

func normalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// ExtractNames finds person names near role keywords. Restricting the
// search to keyword neighborhoods keeps the capitalized-sequence match
// from flagging every heading on the page.
func (e *Extractor) ExtractNames(content string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, loc := range roleKeywordRegex.FindAllStringIndex(content, -1) {
		start := loc[0] - nameWindow
		if start < 0 {
			start = 0
		}
		end := loc[1] + nameWindow
		if end > len(content) {
			end = len(content)
		}
		for _, match := range nameRegex.FindAllString(content[start:end], -1) {
			name := strings.TrimSpace(match)
			if !plausibleName(name) {
				continue
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func plausibleName(name string) bool {
	tokens := strings.Fields(name)
	words := 0
	for _, tok := range tokens {
		low := strings.ToLower(strings.Trim(tok, ".,"))
		for _, generic := range genericNameWords {
			if low == generic {
				return false
			}
		}
		switch low {
		case "dr", "mr", "ms", "mrs", "prof":
			continue
		}
		words++
	}
	return words >= 2
}

// ExtractAddresses matches North-American street addresses and European
// street/postal placements, keeping the raw matched text.
func (e *Extractor) ExtractAddresses(content string) []string {
	var addresses []string
	seen := make(map[string]bool)
	for _, re := range []*regexp.Regexp{addressUSRegex, addressEURegex} {
		for _, match := range re.FindAllString(content, -1) {
			addr := strings.TrimSpace(match)
			if !seen[addr] {
				seen[addr] = true
				addresses = append(addresses, addr)
			}
		}
	}
	return addresses
}

// SocialLinks keeps anchors whose host belongs to a known professional
// or social network.
func (e *Extractor) SocialLinks(links []Link) []string {
	var social []string
	seen := make(map[string]bool)
	for _, link := range links {
		u, err := url.Parse(link.URL)
		if err != nil {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if !isSocialHost(host) {
			continue
		}
		if !seen[link.URL] {
			seen[link.URL] = true
			social = append(social, link.URL)
		}
	}
	return social
}

func isSocialHost(host string) bool {
	for _, h := range socialHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ExtractLinks collects outbound anchors resolved against the page URL.
// Non-navigational schemes and fragment-only anchors are skipped.
func (e *Extractor) ExtractLinks(body []byte, pageURL string) []Link {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	var links []Link
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || shouldSkipHref(href) {
			return
		}
		abs := resolveURL(base, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, Link{URL: abs, AnchorText: strings.TrimSpace(s.Text())})
	})
	return links
}

func shouldSkipHref(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "sms:", "ftp:", "data:"} {
		if strings.HasPrefix(href, scheme) {
			return true
		}
	}
	return false
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

func fallbackText(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}
