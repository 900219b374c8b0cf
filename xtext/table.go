package xtext

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/localcp"
)

// entry describes one supported codepage.
type entry struct {
	enc     encoding.Encoding
	lead    func(b byte) bool // nil for single-byte codepages
	name    string
	aliases []string
	id      localcp.ID
}

// Lead byte ranges follow the Windows tables. Where x/text decodes a lead
// byte on its own, the Decoder keeps accumulating and reports the run once.

func shiftJISLead(b byte) bool {
	return (b >= 0x81 && b <= 0x9f) || (b >= 0xe0 && b <= 0xfc)
}

func eucJPLead(b byte) bool {
	return b == 0x8e || b == 0x8f || (b >= 0xa1 && b <= 0xfe)
}

func dbcsLead(b byte) bool {
	return b >= 0x81 && b <= 0xfe
}

func utf8Lead(b byte) bool {
	return b >= 0xc2 && b <= 0xf4
}

var table = []entry{
	{id: 437, name: "ibm437", aliases: []string{"cp437"}, enc: charmap.CodePage437},
	{id: 850, name: "ibm850", aliases: []string{"cp850"}, enc: charmap.CodePage850},
	{id: 852, name: "ibm852", aliases: []string{"cp852"}, enc: charmap.CodePage852},
	{id: 855, name: "ibm855", aliases: []string{"cp855"}, enc: charmap.CodePage855},
	{id: 858, name: "ibm00858", aliases: []string{"cp858"}, enc: charmap.CodePage858},
	{id: 860, name: "ibm860", aliases: []string{"cp860"}, enc: charmap.CodePage860},
	{id: 862, name: "ibm862", aliases: []string{"cp862"}, enc: charmap.CodePage862},
	{id: 863, name: "ibm863", aliases: []string{"cp863"}, enc: charmap.CodePage863},
	{id: 865, name: "ibm865", aliases: []string{"cp865"}, enc: charmap.CodePage865},
	{id: 866, name: "ibm866", aliases: []string{"cp866"}, enc: charmap.CodePage866},
	{id: 874, name: "windows-874", aliases: []string{"cp874", "tis-620"}, enc: charmap.Windows874},
	{id: 932, name: "shift_jis", aliases: []string{"cp932", "sjis", "windows-31j"}, enc: japanese.ShiftJIS, lead: shiftJISLead},
	{id: 936, name: "gbk", aliases: []string{"cp936"}, enc: simplifiedchinese.GBK, lead: dbcsLead},
	{id: 949, name: "euc-kr", aliases: []string{"cp949", "uhc"}, enc: korean.EUCKR, lead: dbcsLead},
	{id: 950, name: "big5", aliases: []string{"cp950"}, enc: traditionalchinese.Big5, lead: dbcsLead},
	{id: 1250, name: "windows-1250", aliases: []string{"cp1250"}, enc: charmap.Windows1250},
	{id: 1251, name: "windows-1251", aliases: []string{"cp1251"}, enc: charmap.Windows1251},
	{id: 1252, name: "windows-1252", aliases: []string{"cp1252"}, enc: charmap.Windows1252},
	{id: 1253, name: "windows-1253", aliases: []string{"cp1253"}, enc: charmap.Windows1253},
	{id: 1254, name: "windows-1254", aliases: []string{"cp1254"}, enc: charmap.Windows1254},
	{id: 1255, name: "windows-1255", aliases: []string{"cp1255"}, enc: charmap.Windows1255},
	{id: 1256, name: "windows-1256", aliases: []string{"cp1256"}, enc: charmap.Windows1256},
	{id: 1257, name: "windows-1257", aliases: []string{"cp1257"}, enc: charmap.Windows1257},
	{id: 1258, name: "windows-1258", aliases: []string{"cp1258"}, enc: charmap.Windows1258},
	{id: 10000, name: "macintosh", aliases: []string{"mac"}, enc: charmap.Macintosh},
	{id: 10007, name: "x-mac-cyrillic", aliases: []string{"maccyrillic"}, enc: charmap.MacintoshCyrillic},
	{id: 20866, name: "koi8-r", aliases: []string{"cp20866"}, enc: charmap.KOI8R},
	{id: 20932, name: "euc-jp", aliases: []string{"cp20932", "cp51932"}, enc: japanese.EUCJP, lead: eucJPLead},
	{id: 21866, name: "koi8-u", aliases: []string{"cp21866"}, enc: charmap.KOI8U},
	{id: 28591, name: "iso-8859-1", aliases: []string{"latin1"}, enc: charmap.ISO8859_1},
	{id: 28592, name: "iso-8859-2", aliases: []string{"latin2"}, enc: charmap.ISO8859_2},
	{id: 28593, name: "iso-8859-3", aliases: []string{"latin3"}, enc: charmap.ISO8859_3},
	{id: 28594, name: "iso-8859-4", aliases: []string{"latin4"}, enc: charmap.ISO8859_4},
	{id: 28595, name: "iso-8859-5", aliases: []string{"cyrillic"}, enc: charmap.ISO8859_5},
	{id: 28596, name: "iso-8859-6", aliases: []string{"arabic"}, enc: charmap.ISO8859_6},
	{id: 28597, name: "iso-8859-7", aliases: []string{"greek"}, enc: charmap.ISO8859_7},
	{id: 28598, name: "iso-8859-8", aliases: []string{"hebrew"}, enc: charmap.ISO8859_8},
	{id: 28599, name: "iso-8859-9", aliases: []string{"latin5"}, enc: charmap.ISO8859_9},
	{id: 28600, name: "iso-8859-10", aliases: []string{"latin6"}, enc: charmap.ISO8859_10},
	{id: 28603, name: "iso-8859-13", aliases: []string{"latin7"}, enc: charmap.ISO8859_13},
	{id: 28604, name: "iso-8859-14", aliases: []string{"latin8"}, enc: charmap.ISO8859_14},
	{id: 28605, name: "iso-8859-15", aliases: []string{"latin9"}, enc: charmap.ISO8859_15},
	{id: 28606, name: "iso-8859-16", aliases: []string{"latin10"}, enc: charmap.ISO8859_16},
	{id: 54936, name: "gb18030", aliases: []string{"cp54936"}, enc: simplifiedchinese.GB18030, lead: dbcsLead},
	{id: localcp.UTF8, name: "utf-8", aliases: []string{"utf8", "cp65001"}, enc: unicode.UTF8, lead: utf8Lead},
}

var byID = func() map[localcp.ID]*entry {
	m := make(map[localcp.ID]*entry, len(table))
	for i := range table {
		m[table[i].id] = &table[i]
	}
	return m
}()
