package render

import (
	"github.com/beevik/etree"
)

// ElementKind is the closed set of OSIS elements transformer knows how to
// handle. Everything else is KindOther and is passed through.
type ElementKind string

const (
	KindTitle       ElementKind = "title"
	KindVerse       ElementKind = "verse"
	KindMilestone   ElementKind = "milestone"
	KindHi          ElementKind = "hi"
	KindTransChange ElementKind = "transChange"
	KindDivineName  ElementKind = "divineName"
	KindQuote       ElementKind = "q"
	KindNote        ElementKind = "note"
	KindWord        ElementKind = "w"
	KindLineGroup   ElementKind = "lg"
	KindLine        ElementKind = "l"
	KindLineBreak   ElementKind = "lb"
	KindOther       ElementKind = ""
)

var kinds = map[string]ElementKind{
	string(KindTitle):       KindTitle,
	string(KindVerse):       KindVerse,
	string(KindMilestone):   KindMilestone,
	string(KindHi):          KindHi,
	string(KindTransChange): KindTransChange,
	string(KindDivineName):  KindDivineName,
	string(KindQuote):       KindQuote,
	string(KindNote):        KindNote,
	string(KindWord):        KindWord,
	string(KindLineGroup):   KindLineGroup,
	string(KindLine):        KindLine,
	string(KindLineBreak):   KindLineBreak,
}

// Classify maps element to its kind by local tag name, namespace prefix is
// ignored.
func Classify(el *etree.Element) ElementKind {
	if k, ok := kinds[el.Tag]; ok {
		return k
	}
	return KindOther
}

// Attribute values with special meaning.
const (
	attrStartID = "sID"
	attrEndID   = "eID"
	attrOsisID  = "osisID"
	attrType    = "type"
	attrMorph   = "morph"

	titleMain    = "main"
	titleChapter = "chapter"
	titlePsalm   = "psalm"

	milestoneParagraph      = "x-p"
	milestoneExtraParagraph = "x-extra-p"

	noteStrongsMarkup = "x-strongsMarkup"

	quoteBlock = "block"

	morphSingular = "singular"
	morphPlural   = "plural"

	lineSelah    = "selah"
	lineDoxology = "doxology"
)

func hasAttr(el *etree.Element, key string) bool {
	return el.SelectAttr(key) != nil
}

// Classes returns CSS classes which may appear in rendered markup.
func Classes() []string {
	return []string{"verseNum", "divineName", "stanza", lineFirst, lineSecondary, lineSelah, lineDoxology}
}

const (
	lineFirst     = "firstLine"
	lineSecondary = "secondaryLine"
)
