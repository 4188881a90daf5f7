package handlers

import (
	"fmt"
	"log"
	"strings"
)

// ValidateRegistration checks a new roster entry. The access code becomes
// the member's identity code, so it must not contain the channel-id
// separator and must not look like another member's code prefix-wise.
func ValidateRegistration(name, position, code string, number int) (map[string]string, bool) {
	errors := make(map[string]string)
	const maxName = 50
	const maxPosition = 30
	const minCode = 4
	const maxCode = 50

	if len(name) == 0 {
		errors["name"] = "Name cannot be empty"
	} else if len(name) > maxName {
		errors["name"] = fmt.Sprintf("Name cannot be longer than %d characters", maxName)
	}

	if len(position) > maxPosition {
		errors["position"] = fmt.Sprintf("Position cannot be longer than %d characters", maxPosition)
	}

	if len(code) < minCode {
		errors["code"] = fmt.Sprintf("Access code must be at least %d characters long", minCode)
	} else if len(code) > maxCode {
		errors["code"] = fmt.Sprintf("Access code cannot be longer than %d characters", maxCode)
	} else if strings.Contains(code, "_") {
		errors["code"] = "Access code cannot contain '_'"
	} else if strings.Contains(code, "/") {
		errors["code"] = "Access code cannot contain '/'"
	}

	if number < 0 || number > 99 {
		errors["number"] = "Number must be between 0 and 99"
	}

	if len(errors) > 0 {
		log.Println("Validation errors:", errors)
		return errors, false
	}
	return nil, true
}
