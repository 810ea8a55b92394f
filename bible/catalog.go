// Package bible holds the fixed catalog of canonical books.
package bible

import (
	"strings"
)

// Book describes a single catalog entry.
type Book struct {
	// ShortName is OSIS book identifier, matches osisID of the book container.
	ShortName string
	LongName  string
	Testament Testament
	// Filename is default output page name.
	Filename string
}

func newBook(short, long string, t Testament) Book {
	return Book{
		ShortName: short,
		LongName:  long,
		Testament: t,
		Filename:  strings.ReplaceAll(strings.ToLower(long), " ", "-") + ".html",
	}
}

var catalog = []Book{
	newBook("Gen", "Genesis", TestamentOT),
	newBook("Exod", "Exodus", TestamentOT),
	newBook("Lev", "Leviticus", TestamentOT),
	newBook("Num", "Numbers", TestamentOT),
	newBook("Deut", "Deuteronomy", TestamentOT),
	newBook("Josh", "Joshua", TestamentOT),
	newBook("Judg", "Judges", TestamentOT),
	newBook("Ruth", "Ruth", TestamentOT),
	newBook("1Sam", "1 Samuel", TestamentOT),
	newBook("2Sam", "2 Samuel", TestamentOT),
	newBook("1Kgs", "1 Kings", TestamentOT),
	newBook("2Kgs", "2 Kings", TestamentOT),
	newBook("1Chr", "1 Chronicles", TestamentOT),
	newBook("2Chr", "2 Chronicles", TestamentOT),
	newBook("Ezra", "Ezra", TestamentOT),
	newBook("Neh", "Nehemiah", TestamentOT),
	newBook("Esth", "Esther", TestamentOT),
	newBook("Job", "Job", TestamentOT),
	newBook("Ps", "Psalms", TestamentOT),
	newBook("Prov", "Proverbs", TestamentOT),
	newBook("Eccl", "Ecclesiastes", TestamentOT),
	newBook("Song", "Song of Songs", TestamentOT),
	newBook("Isa", "Isaiah", TestamentOT),
	newBook("Jer", "Jeremiah", TestamentOT),
	newBook("Lam", "Lamentations", TestamentOT),
	newBook("Ezek", "Ezekiel", TestamentOT),
	newBook("Dan", "Daniel", TestamentOT),
	newBook("Hos", "Hosea", TestamentOT),
	newBook("Joel", "Joel", TestamentOT),
	newBook("Amos", "Amos", TestamentOT),
	newBook("Obad", "Obadiah", TestamentOT),
	newBook("Jonah", "Jonah", TestamentOT),
	newBook("Mic", "Micah", TestamentOT),
	newBook("Nah", "Nahum", TestamentOT),
	newBook("Hab", "Habakkuk", TestamentOT),
	newBook("Zeph", "Zephaniah", TestamentOT),
	newBook("Hag", "Haggai", TestamentOT),
	newBook("Zech", "Zechariah", TestamentOT),
	newBook("Mal", "Malachi", TestamentOT),
	newBook("Matt", "Matthew", TestamentNT),
	newBook("Mark", "Mark", TestamentNT),
	newBook("Luke", "Luke", TestamentNT),
	newBook("John", "John", TestamentNT),
	newBook("Acts", "Acts", TestamentNT),
	newBook("Rom", "Romans", TestamentNT),
	newBook("1Cor", "1 Corinthians", TestamentNT),
	newBook("2Cor", "2 Corinthians", TestamentNT),
	newBook("Gal", "Galatians", TestamentNT),
	newBook("Eph", "Ephesians", TestamentNT),
	newBook("Phil", "Philippians", TestamentNT),
	newBook("Col", "Colossians", TestamentNT),
	newBook("1Thess", "1 Thessalonians", TestamentNT),
	newBook("2Thess", "2 Thessalonians", TestamentNT),
	newBook("1Tim", "1 Timothy", TestamentNT),
	newBook("2Tim", "2 Timothy", TestamentNT),
	newBook("Titus", "Titus", TestamentNT),
	newBook("Phlm", "Philemon", TestamentNT),
	newBook("Heb", "Hebrews", TestamentNT),
	newBook("Jas", "James", TestamentNT),
	newBook("1Pet", "1 Peter", TestamentNT),
	newBook("2Pet", "2 Peter", TestamentNT),
	newBook("1John", "1 John", TestamentNT),
	newBook("2John", "2 John", TestamentNT),
	newBook("3John", "3 John", TestamentNT),
	newBook("Jude", "Jude", TestamentNT),
	newBook("Rev", "Revelation", TestamentNT),
}

// Catalog returns all books in canonical order. Returned slice is a copy.
func Catalog() []Book {
	out := make([]Book, len(catalog))
	copy(out, catalog)
	return out
}

// ByTestament filters books preserving order.
func ByTestament(books []Book, t Testament) []Book {
	var out []Book
	for _, b := range books {
		if b.Testament == t {
			out = append(out, b)
		}
	}
	return out
}

// Lookup finds catalog book by its OSIS identifier.
func Lookup(short string) (Book, bool) {
	for _, b := range catalog {
		if b.ShortName == short {
			return b, true
		}
	}
	return Book{}, false
}
