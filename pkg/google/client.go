package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/harrisonrobin/studyplan/pkg/auth"
	"github.com/harrisonrobin/studyplan/pkg/index"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrCalendarNotFound is returned when no calendar has the configured name.
var ErrCalendarNotFound = errors.New("calendar not found")

// NewClient authenticates with the credentials in configDir and resolves the
// calendar named calendarName.
func NewClient(ctx context.Context, configDir, calendarName string, idx *index.EventIndex) (*CalendarClient, error) {
	httpClient, err := auth.GetClient(ctx, configDir, auth.Scopes)
	if err != nil {
		return nil, err
	}
	return NewClientWithHTTP(ctx, httpClient, calendarName, idx)
}

// NewClientWithHTTP builds a client on top of an already authorized
// *http.Client.
func NewClientWithHTTP(ctx context.Context, httpClient *http.Client, calendarName string, idx *index.EventIndex) (*CalendarClient, error) {
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	calendarID, err := findCalendar(ctx, srv, calendarName)
	if err != nil {
		return nil, err
	}
	return NewCalendarClient(srv, calendarID, idx), nil
}

func findCalendar(ctx context.Context, srv *calendar.Service, name string) (string, error) {
	if name == "primary" {
		return name, nil
	}
	var calendarID string
	err := srv.CalendarList.List().Pages(ctx, func(page *calendar.CalendarList) error {
		for _, item := range page.Items {
			if item.Summary == name || item.Id == name {
				calendarID = item.Id
				return errStopPaging
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopPaging) {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	if calendarID == "" {
		return "", fmt.Errorf("%w: %q", ErrCalendarNotFound, name)
	}
	return calendarID, nil
}

var errStopPaging = errors.New("stop paging")
