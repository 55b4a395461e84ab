package main

import "strings"

// reorderFlagsFirst moves flags ahead of positional arguments so the stdlib
// parser accepts "analyze session.log --out map.html". Everything after a
// bare "--" stays positional.
func reorderFlagsFirst(arguments []string, valueFlags map[string]bool) []string {
	if len(arguments) == 0 {
		return arguments
	}

	flags := make([]string, 0, len(arguments))
	positionals := make([]string, 0, len(arguments))

	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			positionals = append(positionals, arguments[index+1:]...)
			break
		}
		if len(argument) < 2 || !strings.HasPrefix(argument, "-") {
			positionals = append(positionals, argument)
			continue
		}

		flags = append(flags, argument)
		if strings.Contains(argument, "=") {
			continue
		}
		if valueFlags[strings.TrimLeft(argument, "-")] && index+1 < len(arguments) {
			index++
			flags = append(flags, arguments[index])
		}
	}

	return append(flags, positionals...)
}
