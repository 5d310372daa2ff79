package cli

import (
	"strings"

	"github.com/dori/duotask/internal/model"
)

type quickAdd struct {
	Title     string
	Tab       model.Tab // empty means the active tab
	Tag       string    // tag name, created if missing
	Important bool
}

// parseQuickAdd pulls inline markers out of a task title:
//
//	@name            tag
//	!  !!  !important   important
//	#work #personal  tab
//
// Anything else, including unknown # words, stays in the title.
func parseQuickAdd(text string) quickAdd {
	var task quickAdd
	var titleParts []string

	for _, word := range strings.Fields(text) {
		lower := strings.ToLower(word)
		switch {
		case strings.HasPrefix(word, "@") && len(word) > 1:
			task.Tag = strings.TrimPrefix(word, "@")

		case lower == "!" || lower == "!!" || lower == "!important" || lower == "!imp":
			task.Important = true

		case strings.HasPrefix(word, "#"):
			tab := model.Tab(strings.TrimPrefix(lower, "#"))
			if tab.Valid() {
				task.Tab = tab
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	task.Title = strings.Join(titleParts, " ")
	return task
}
