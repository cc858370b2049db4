package ui

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var reader *bufio.Reader

func inputReader() *bufio.Reader {
	if reader == nil {
		reader = bufio.NewReader(in)
	}
	return reader
}

// Prompt asks the user for input. The returned text is trimmed.
// io.EOF is returned when input is closed.
func Prompt(message string) (string, error) {
	color.New(color.FgGreen, color.Bold).Fprintf(out, "%s ", message)
	input, err := inputReader().ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Confirm asks the user for a yes/no confirmation.
func Confirm(message string, defaultValue bool) (bool, error) {
	defaultStr := "y/N"
	if defaultValue {
		defaultStr = "Y/n"
	}

	answer, err := Prompt(fmt.Sprintf("%s [%s]:", message, defaultStr))
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(answer)
	if answer == "" {
		return defaultValue, nil
	}
	return answer == "y" || answer == "yes", nil
}
