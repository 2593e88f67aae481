package rules

import "github.com/yjpartners/valet/internal/model"

// StarterYAML is the ruleset written by `valet rules init`: broad
// extension buckets first, then the Korean and English business
// keywords, then a catch-all for everything else.
const StarterYAML = `# valet ruleset
#
# Rules run in order. Extensions are checked across every category
# before any keywords are, and the final category with no criteria
# collects whatever nothing else claimed.
categories:
  - id: Images
    extensions: [jpg, jpeg, png, gif, webp, heic, svg]
  - id: Documents
    extensions: [pdf, doc, docx, hwp, txt, md]
  - id: Spreadsheets
    extensions: [xls, xlsx, csv]
  - id: Presentations
    extensions: [ppt, pptx, key]
  - id: Media
    extensions: [mp3, mp4, wav, mov, avi, mkv]
  - id: Archives
    extensions: [zip, tar, gz, rar, 7z]
  - id: Tax
    keywords: [세금, 세무, 영수증, tax, receipt, invoice]
  - id: Proposals
    keywords: [제안서, 견적, proposal, quote]
  - id: Backups
    keywords: [백업, backup]
  - id: Other
`

// Default returns the starter ruleset. It is what organize runs with
// when the user has not written a ruleset file yet.
func Default() model.Ruleset {
	rs, err := Parse([]byte(StarterYAML))
	if err != nil {
		// The starter ruleset is compiled in; failing to parse it is a
		// programming error.
		panic("starter ruleset invalid: " + err.Error())
	}
	return rs
}
