// Package layout holds the page shell shared by every web page.
package layout

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string
	Message string
}

// PageData is the data every page needs
type PageData struct {
	Title string
	Flash *FlashMessage
}

func pageTitle(data PageData) string {
	if data.Title == "" {
		return "2048"
	}
	return data.Title + " - 2048"
}
