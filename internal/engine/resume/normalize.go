package resume

import (
	"regexp"
	"strings"
)

// Resume text extracted from PDFs loses whitespace at layout boundaries.
// Normalize repairs enough sentence structure for the sentence-splitting
// chunker and for the NER model to recognize multi-token entities.
//
// Stage order matters: spacing repairs run before contact-field fixes because
// the email/phone patterns expect letter runs already separated, and section
// headers are isolated on their own lines before line breaks become sentence
// separators.
var (
	// stage 1: canonical whitespace
	nonPrintableRe = regexp.MustCompile(`[^\x20-\x7E\n\t]`)
	spaceRunRe     = regexp.MustCompile(`[ \t]+`)
	newlinePadRe   = regexp.MustCompile(` *\n *`)
	blankLineRe    = regexp.MustCompile(`\n+`)

	// stage 2: OCR/extraction spacing repairs
	camelBoundaryRe = regexp.MustCompile(`([a-z])([A-Z])`)
	letterDigitRe   = regexp.MustCompile(`([A-Za-z])([0-9])`)
	digitLetterRe   = regexp.MustCompile(`([0-9])([A-Za-z])`)
	punctLetterRe   = regexp.MustCompile(`([.!?,;:])([A-Za-z])`)

	// stage 3: contact fields
	phoneRe       = regexp.MustCompile(`\(?\b([0-9]{3})\)?[\s.-]{0,3}([0-9]{3})[\s.-]{0,3}([0-9]{4})\b`)
	emailAtRe     = regexp.MustCompile(`[ \t]*@[ \t]*`)
	emailDomainRe = regexp.MustCompile(`@(?:[A-Za-z0-9_-]+ *\. *)+[A-Za-z]{2,}`)

	// stage 4: resume section headers forced onto their own lines
	sectionHeaderRe = regexp.MustCompile(`(?i)\b(EXPERIENCE|EDUCATION|SKILLS|SUMMARY|OBJECTIVE|PROJECTS|CERTIFICATIONS|AWARDS|LANGUAGES)\b`)

	// stage 5: sentence synthesis
	spacedPeriodRe    = regexp.MustCompile(` +\.`)
	duplicatePeriodRe = regexp.MustCompile(`\.(?: *\.)+`)
	whitespaceRe      = regexp.MustCompile(`\s+`)
)

// Normalize converts raw extracted document text into the canonical form the
// chunker and NER service operate on. It never fails; empty or
// whitespace-only input yields an empty string. Normalize is idempotent.
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	// 1. Unify line endings, drop non-printables, collapse whitespace runs.
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, " ", " ")
	s = nonPrintableRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = newlinePadRe.ReplaceAllString(s, "\n")
	s = blankLineRe.ReplaceAllString(s, "\n")

	// 2. Re-insert spaces lost at layout boundaries.
	s = camelBoundaryRe.ReplaceAllString(s, "$1 $2")
	s = letterDigitRe.ReplaceAllString(s, "$1 $2")
	s = digitLetterRe.ReplaceAllString(s, "$1 $2")
	s = punctLetterRe.ReplaceAllString(s, "$1 $2")

	// 3. Canonicalize phone numbers and repair broken email addresses.
	s = phoneRe.ReplaceAllString(s, "($1) $2-$3")
	s = emailAtRe.ReplaceAllString(s, "@")
	s = emailDomainRe.ReplaceAllStringFunc(s, stripInnerSpaces)

	// 4. Isolate known section headers so they become their own sentences.
	s = sectionHeaderRe.ReplaceAllString(s, "\n$1\n")

	// 5. Turn line breaks into sentence separators.
	s = strings.ReplaceAll(s, "\n", ". ")
	s = spacedPeriodRe.ReplaceAllString(s, ".")
	s = duplicatePeriodRe.ReplaceAllString(s, ".")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, ". ")
	return s
}

func stripInnerSpaces(s string) string {
	return strings.NewReplacer(" ", "", "\t", "").Replace(s)
}
