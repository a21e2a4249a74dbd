package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// confirmPhrase is what the operator must type before a live run may start.
const confirmPhrase = "DELETE"

// confirmDeletion gates every live run. A package var so tests (and future
// non-interactive frontends) can swap the prompt out; the sweep core never
// sees it.
var confirmDeletion = func(bucket string) (bool, error) {
	return promptConfirm(stdin, stdout, bucket)
}

func promptConfirm(in io.Reader, out io.Writer, bucket string) (bool, error) {
	fmt.Fprintf(out, "WARNING: this will permanently delete objects from bucket %q.\n", bucket)
	fmt.Fprintf(out, "Type '%s' to confirm: ", confirmPhrase)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return strings.TrimSpace(line) == confirmPhrase, nil
}
