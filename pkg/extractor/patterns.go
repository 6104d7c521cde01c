package extractor

import (
	"regexp"
	"strings"
)

// Pattern tables for the five fact categories. Kept together so each
// table can be unit-tested without running a crawl.

var (
	emailRegex = regexp.MustCompile(`(?i)[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// Loosely delimited digit groups with an optional leading + and
	// separators among -, ., space, slash and parentheses. Matches are
	// validated by digit count afterwards.
	phoneRegex = regexp.MustCompile(`\+?\(?\d[\d\-.()/ ]{5,}\d`)

	// Two or more capitalized tokens, optionally preceded by a title.
	nameRegex = regexp.MustCompile(`(?:(?:Dr|Mr|Ms|Mrs|Prof)\.\s+)?\p{Lu}[\p{Ll}\x{00C0}-\x{017F}]+(?:\s+\p{Lu}[\p{Ll}\x{00C0}-\x{017F}]+)+`)

	// North-American street address: number, street name, suffix, place
	// and a 5-digit code.
	addressUSRegex = regexp.MustCompile(`\d{1,5}\s+[A-Za-z][A-Za-z .]*\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Court|Ct|Place|Pl)\.?\s*,\s*[A-Za-z .]+\s+\d{5}`)

	// European placement: place and house number, then postal code and
	// city ("Hauptstrasse 12, 10115 Berlin").
	addressEURegex = regexp.MustCompile(`\p{Lu}[\p{L}.\-]+(?:\s+\p{L}[\p{L}.\-]*)*\s+\d{1,4}[a-z]?\s*,\s*\d{4,5}\s+\p{Lu}[\p{L}\-]+`)
)

// emailNoise lists substrings that mark an email match as a placeholder
// or automated sender rather than a reachable contact.
var emailNoise = []string{
	"noreply",
	"no-reply",
	"donotreply",
	"do-not-reply",
	"example.com",
	"example.org",
	"test.com",
	"yourdomain",
	"yoursite",
	"sentry",
	"@2x",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".svg",
	".webp",
}

// roleKeywords bound the text regions searched for person names. A name
// candidate is only accepted when it appears near one of these.
var roleKeywords = []string{
	"team",
	"staff",
	"ceo",
	"cto",
	"cfo",
	"coo",
	"founder",
	"director",
	"manager",
	"head",
	"president",
	"owner",
	"partner",
	"lead",
	"geschäftsführer",
	"inhaber",
	"leitung",
	"vorstand",
	"ansprechpartner",
}

// roleKeywordRegex locates role keywords case-insensitively so window
// offsets index the text being searched.
var roleKeywordRegex = regexp.MustCompile(`(?i)` + strings.Join(roleKeywords, `|`))

// genericNameWords reject capitalized sequences that are page furniture
// rather than people ("Contact Page", "Email Address").
var genericNameWords = []string{
	"contact",
	"email",
	"phone",
	"address",
	"website",
	"company",
	"page",
	"home",
	"about",
	"privacy",
	"policy",
	"terms",
	"cookie",
	"impressum",
	"kontakt",
	"newsletter",
}

// socialHosts lists professional and social network hosts worth keeping
// as profile links.
var socialHosts = []string{
	"linkedin.com",
	"xing.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"youtube.com",
	"tiktok.com",
}

// minPhoneDigits is the shortest normalized digit string accepted as a
// real phone number.
const minPhoneDigits = 7

// nameWindow is how many bytes around a role keyword are searched for
// person names.
const nameWindow = 120
