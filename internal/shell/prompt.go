package shell

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/shorthub/coordinator/internal/models"
)

func (s *Shell) ask(in *bufio.Scanner, label string) string {
	fmt.Fprint(s.Out, label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func (s *Shell) promptCredentials(in *bufio.Scanner) (username, password string) {
	username = s.ask(in, "Username: ")
	password = s.ask(in, "Password: ")
	return username, password
}

// promptSubmission asks for a URL and a content type, accepting either the
// enum value or its 1-based position in the printed list.
func (s *Shell) promptSubmission(in *bufio.Scanner) models.SubmissionRecord {
	url := s.ask(in, "Channel URL: ")

	fmt.Fprintln(s.Out, "Content types:")
	for i, c := range models.ContentTypes {
		fmt.Fprintf(s.Out, "  %d) %s\n", i+1, c)
	}
	choice := s.ask(in, "Content type: ")
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(models.ContentTypes) {
		choice = string(models.ContentTypes[n-1])
	}

	return models.SubmissionRecord{YoutubeURL: url, ContentType: models.ContentType(strings.ToUpper(choice))}
}
