package router

import (
	"context"
	"fmt"
)

// Event names accepted by Dispatch.
const (
	EventDocumentRequested    = "documentRequested"
	EventMenuItemActivated    = "menuItemActivated"
	EventSearchResultSelected = "searchResultSelected"
	EventDropdownItemSelected = "dropdownItemSelected"
	EventSearchQueryChanged   = "searchQueryChanged"
	EventSearchDismissed      = "searchDismissed"
	EventHistoryPopped        = "historyPopped"
	EventThemeToggled         = "themeToggled"
	EventTOCEntryActivated    = "tocEntryActivated"
	EventCopyRequested        = "copyRequested"
	EventRetryRequested       = "retryRequested"
)

// Direction values for EventHistoryPopped.
const (
	DirectionBack    = "back"
	DirectionForward = "forward"
)

// Event is a viewer interaction.
type Event struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Link      string `json:"link,omitempty"`
	Query     string `json:"query,omitempty"`
	Target    string `json:"target,omitempty"`
	Index     int    `json:"index,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// UnknownEventError is returned by Dispatch for unrecognized names.
type UnknownEventError struct {
	Name string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event %q", e.Name)
}

// MissingPathError is returned by Dispatch when a navigation event
// carries no path.
type MissingPathError struct {
	Name string
}

func (e *MissingPathError) Error() string {
	return fmt.Sprintf("event %q requires a path", e.Name)
}

// OnNavigate handles a navigation menu click.
func (r *Router) OnNavigate(ctx context.Context, path, link string) error {
	return r.Navigate(ctx, path, link)
}

// OnSearchResultSelected handles a click on a search result.
func (r *Router) OnSearchResultSelected(ctx context.Context, path string) error {
	return r.SelectSearchResult(ctx, path)
}

// OnDropdownItemSelected handles a click on a header dropdown item.
func (r *Router) OnDropdownItemSelected(ctx context.Context, path string) error {
	return r.Navigate(ctx, path, "")
}

// Dispatch routes a named event to its handler. Load failures are shown
// on the page and also returned; an unknown name returns
// *UnknownEventError and a navigation event without a path returns
// *MissingPathError, both changing nothing.
func (r *Router) Dispatch(ctx context.Context, ev Event) error {
	switch ev.Name {
	case EventDocumentRequested, EventMenuItemActivated, EventSearchResultSelected, EventDropdownItemSelected:
		if ev.Path == "" {
			return &MissingPathError{Name: ev.Name}
		}
	}

	switch ev.Name {
	case EventDocumentRequested:
		return r.Navigate(ctx, ev.Path, ev.Link)
	case EventMenuItemActivated:
		return r.OnNavigate(ctx, ev.Path, ev.Link)
	case EventSearchResultSelected:
		return r.OnSearchResultSelected(ctx, ev.Path)
	case EventDropdownItemSelected:
		return r.OnDropdownItemSelected(ctx, ev.Path)
	case EventSearchQueryChanged:
		r.Search(ev.Query)
		return nil
	case EventSearchDismissed:
		r.DismissSearch()
		return nil
	case EventHistoryPopped:
		var err error
		if ev.Direction == DirectionForward {
			_, err = r.Forward(ctx)
		} else {
			_, err = r.Back(ctx)
		}
		return err
	case EventThemeToggled:
		r.ToggleTheme()
		return nil
	case EventTOCEntryActivated:
		r.ScrollTo(ev.Target)
		return nil
	case EventCopyRequested:
		_, err := r.Copy(ev.Index)
		return err
	case EventRetryRequested:
		_, err := r.Retry(ctx)
		return err
	default:
		return &UnknownEventError{Name: ev.Name}
	}
}
