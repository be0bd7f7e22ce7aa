package styles

// Number format ids below customNumFmtBase are reserved for formats built into
// every spreadsheet application; interned codes are written from 164 upwards.
const customNumFmtBase = 164

// builtinNumFmt lists the reserved formats with a fixed code.
var builtinNumFmt = map[uint32]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// NumFmtOutputID returns the numFmtId an interned number format is written with.
func NumFmtOutputID(id uint32) uint32 {
	return customNumFmtBase + id
}
