package orgmode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

const sourceName = "orgmode"

var (
	headlineRegex = regexp.MustCompile(`^\*+\s+(TODO|DONE)\s+(?:\[#([A-Z])\]\s*)?(.*?)(?:\s+:([\w@:]+):)?\s*$`)
	anyHeadline   = regexp.MustCompile(`^\*+\s`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})[^>]*>`)
	propertyRegex = regexp.MustCompile(`^:([A-Za-z_]+):\s*(.*)$`)
)

// parseFile parses an Org-mode file and returns its tasks.
func parseFile(filePath string) ([]model.Task, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file, filePath)
}

// ParseFiles parses multiple Org-mode files and returns their tasks in order.
func ParseFiles(filePaths []string) ([]model.Task, error) {
	var allTasks []model.Task
	for _, filePath := range filePaths {
		tasks, err := parseFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filePath, err)
		}
		allTasks = append(allTasks, tasks...)
	}
	return allTasks, nil
}

// Parse reads TODO/DONE headlines from r.
//
// DEADLINE gives the due date; without one the task is undated. The
// properties drawer may carry :ID:, :EFFORT: (H:MM) and :CATEGORY:, which
// becomes the activity (else the first tag). Body text becomes the notes.
// Headlines without an :ID: get "<source>#<slug of the title>", with "-2",
// "-3" appended to repeated titles, so the id survives edits elsewhere in the
// file.
func Parse(r io.Reader, source string) ([]model.Task, error) {
	scanner := bufio.NewScanner(r)
	var tasks []model.Task
	var current *model.Task
	var notes []string
	var firstTag string
	inDrawer := false
	lineNo := 0
	seen := make(map[string]int)

	flush := func() {
		if current == nil {
			return
		}
		current.Notes = strings.TrimSpace(strings.Join(notes, "\n"))
		if current.Activity == "" {
			current.Activity = firstTag
		}
		if current.Title != "" {
			tasks = append(tasks, *current)
		}
		current, notes, firstTag = nil, nil, ""
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if anyHeadline.MatchString(raw) {
			flush()
			inDrawer = false
			matches := headlineRegex.FindStringSubmatch(raw)
			if matches == nil {
				continue
			}
			title := strings.TrimSpace(matches[3])
			current = &model.Task{
				ID:        fallbackID(source, title, seen),
				Title:     title,
				Completed: matches[1] == "DONE",
				Source:    sourceName,
			}
			if matches[4] != "" {
				firstTag = strings.Split(matches[4], ":")[0]
			}
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case line == ":PROPERTIES:":
			inDrawer = true
		case line == ":END:":
			inDrawer = false
		case inDrawer:
			if err := applyProperty(current, line); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", source, lineNo, err)
			}
		case deadlineRegex.MatchString(line):
			m := deadlineRegex.FindStringSubmatch(line)
			d, err := model.ParseDate(m[1])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", source, lineNo, err)
			}
			current.Due = &d
		case strings.HasPrefix(line, "SCHEDULED:") || strings.HasPrefix(line, "CLOSED:"):
		default:
			notes = append(notes, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func fallbackID(source, title string, seen map[string]int) string {
	id := source + "#" + slug(title)
	seen[id]++
	if n := seen[id]; n > 1 {
		id = fmt.Sprintf("%s-%d", id, n)
	}
	return id
}

// slug lowercases s and collapses everything but letters and digits to "-".
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

func applyProperty(task *model.Task, line string) error {
	m := propertyRegex.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	value := strings.TrimSpace(m[2])
	switch strings.ToUpper(m[1]) {
	case "ID":
		task.ID = value
	case "CATEGORY":
		task.Activity = value
	case "EFFORT":
		hours, err := parseEffort(value)
		if err != nil {
			return err
		}
		if err := model.ValidateEstimate(hours); err != nil {
			return err
		}
		task.EstimatedHours = hours
	}
	return nil
}

// parseEffort reads an org effort value: "H:MM" or plain minutes.
func parseEffort(s string) (float64, error) {
	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err := strconv.Atoi(h)
		if err != nil {
			return 0, fmt.Errorf("invalid effort %q: %w", s, err)
		}
		mins, err := strconv.Atoi(m)
		if err != nil {
			return 0, fmt.Errorf("invalid effort %q: %w", s, err)
		}
		return float64(hours) + float64(mins)/60, nil
	}
	mins, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid effort %q: %w", s, err)
	}
	return float64(mins) / 60, nil
}
