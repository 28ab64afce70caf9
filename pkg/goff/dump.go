package goff

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Dump prints one line per logical record.
func (o *ObjectFile) Dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "HDR\tarch level %d\n", o.Header.ArchLevel)
	for _, esd := range o.ESDs {
		fmt.Fprintf(tw, "ESD\t%s\tid=%d\tparent=%d\t%s", esd.SymbolType, esd.ESDID, esd.ParentESDID, esd.Name)
		switch esd.SymbolType {
		case ESDTypeED, ESDTypePR:
			fmt.Fprintf(tw, "\tlength=%d align=%d exec=%d", esd.Length, esd.Alignment(), esd.Executable())
		case ESDTypeLD, ESDTypeER:
			fmt.Fprintf(tw, "\toffset=%#x scope=%d strength=%d", esd.Offset, esd.BindingScope(), esd.BindingStrength())
		}
		fmt.Fprintln(tw)
	}
	for _, txt := range o.TXTs {
		fmt.Fprintf(tw, "TXT\telement=%d\toffset=%#x\tlength=%d\n", txt.ElementESDID, txt.Offset, txt.DataLength)
	}
	fmt.Fprintf(tw, "END\trecords=%d\n", o.End.RecordCount)

	return tw.Flush()
}
