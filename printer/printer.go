// Package printer contains terminal output helpers
package printer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/streamdal/cdc/config"
	"github.com/streamdal/cdc/snapshots"
)

type IPrinter interface {
	Error(str string)
	Print(str string)
}

type Printer struct {
	Out io.Writer
}

func New() *Printer {
	return &Printer{
		Out: os.Stdout,
	}
}

// Error is a convenience function for printing errors.
func (p *Printer) Error(str string) {
	fmt.Fprintf(p.Out, "%s: %s\n", aurora.Red(">> ERROR"), str)
}

// Print is a convenience function for printing regular output.
func (p *Printer) Print(str string) {
	fmt.Fprintf(p.Out, "%s\n", str)
}

// PrintJSON prints v as colorized, indented JSON
func (p *Printer) PrintJSON(v interface{}) error {
	data, err := prettyjson.Marshal(v)
	if err != nil {
		return err
	}

	p.Print(string(data))

	return nil
}

// PrintDescriptor prints a snapshot descriptor as a table
func (p *Printer) PrintDescriptor(descriptor *snapshots.SnapshotDescriptor) {
	if descriptor == nil {
		return
	}

	buf := &bytes.Buffer{}

	table := tablewriter.NewWriter(buf)
	table.SetHeader([]string{"Snapshot", "Xmin", "Xmax", "Tables"})
	table.SetAutoWrapText(false)
	table.Append([]string{
		string(descriptor.Id),
		fmt.Sprint(descriptor.Xmin),
		fmt.Sprint(descriptor.Xmax),
		strings.Join(descriptor.Tables, ", "),
	})
	table.Render()

	fmt.Fprint(p.Out, buf.String())
}

// PrintReplicateSettings logs the settings a replication run starts with
func PrintReplicateSettings(cfg *config.ReplicateConfig) {
	if cfg == nil {
		return
	}

	logrus.Info("----------------------------------------------------------------")
	logrus.Info("> Replicate Settings")
	logrus.Info("----------------------------------------------------------------")
	logrus.Info("")
	logrus.Infof("- %-32s%-6s", "Backend", cfg.Backend)
	logrus.Infof("- %-32s%-6s", "Producer", cfg.Producer)

	if cfg.Source != nil {
		logrus.Infof("- %-32s%-6v", "CommitPositionsAfterSeconds", cfg.Source.CommitPositionsAfterSeconds)

		if cfg.Source.CommitPositionsAfterFlushedMessages != nil {
			logrus.Infof("- %-32s%-6d", "CommitPositionsAfterFlushed", *cfg.Source.CommitPositionsAfterFlushedMessages)
		}
	}

	if cfg.Consumer != nil {
		logrus.Infof("- %-32s%-6d", "PollTimeoutMs", cfg.Consumer.PollTimeoutMs)
		logrus.Infof("- %-32s%-6d", "FlushIntervalMs", cfg.Consumer.FlushIntervalMs)
		logrus.Infof("- %-32s%-6d", "FlushBatchSize", cfg.Consumer.FlushBatchSize)
	}

	logrus.Info("")
}
