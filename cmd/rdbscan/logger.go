package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// namespaceFormatter prefixes log lines with the active subcommand, the
// way PowerDNS-lightningstream's NamespaceFormatter prefixes with a
// database name.
type namespaceFormatter struct {
	parent logrus.Formatter
}

func (f *namespaceFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if cmdName, ok := entry.Data["cmd"]; ok {
		entry.Message = fmt.Sprintf("[%-9s] %s", cmdName, entry.Message)
	}
	return f.parent.Format(entry)
}

func init() {
	log.SetFormatter(&namespaceFormatter{parent: &logrus.TextFormatter{}})
}
