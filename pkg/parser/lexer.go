package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenIdent
	TokenKeyword
	TokenInt
	TokenFloat
	TokenString
	TokenPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "newline"
	case TokenIdent:
		return "identifier"
	case TokenKeyword:
		return "keyword"
	case TokenInt:
		return "integer"
	case TokenFloat:
		return "float"
	case TokenString:
		return "string"
	case TokenPunct:
		return "punctuation"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

type Token struct {
	Kind TokenKind
	Text string

	Position
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF, TokenNewline:
		return t.Kind.String()
	default:
		return fmt.Sprintf("%q", t.Text)
	}
}

var keywords = map[string]Keyword{
	string(KeywordFn):    KeywordFn,
	string(KeywordIf):    KeywordIf,
	string(KeywordElse):  KeywordElse,
	string(KeywordTrue):  KeywordTrue,
	string(KeywordFalse): KeywordFalse,
	string(KeywordNil):   KeywordNil,
}

// longest first
var punctuation = []string{
	"==", "!=", "<=", ">=", "&&", "||",
	"(", ")", "{", "}", ",", ";", "=",
	"+", "-", "*", "/", "%", "^", "<", ">", "!",
}

type lexer struct {
	file string
	src  string
	off  int
	line int
	col  int

	tokens []Token
	errs   ErrorSet
}

// Lex splits src into tokens. Lexing continues past bad characters so that
// every error in the input is reported at once.
func Lex(file, src string) ([]Token, error) {
	l := &lexer{
		file: file,
		src:  src,
		line: 1,
		col:  1,
	}

	l.run()

	return l.tokens, l.errs.Err()
}

func (l *lexer) pos() Position {
	return Position{File: l.file, Line: l.line, Col: l.col}
}

func (l *lexer) peek() rune {
	if l.off >= len(l.src) {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexer) emit(kind TokenKind, text string, pos Position) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Position: pos})
}

func (l *lexer) run() {
	for l.off < len(l.src) {
		pos := l.pos()
		r := l.peek()

		switch {
		case r == '\n':
			l.advance()
			l.emit(TokenNewline, "\n", pos)
		case unicode.IsSpace(r):
			l.advance()
		case r == '#':
			for l.off < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case r == '"':
			l.lexString(pos)
		case isDigitRune(r) || (r == '.' && l.off+1 < len(l.src) && isDigit(l.src[l.off+1])):
			l.lexNumber(pos)
		case r == '_' || unicode.IsLetter(r):
			start := l.off
			for l.off < len(l.src) && (l.peek() == '_' || unicode.IsLetter(l.peek()) || isDigitRune(l.peek())) {
				l.advance()
			}

			text := l.src[start:l.off]
			if _, ok := keywords[text]; ok {
				l.emit(TokenKeyword, text, pos)
			} else {
				l.emit(TokenIdent, text, pos)
			}
		default:
			if !l.lexPunct(pos) {
				l.advance()
				l.errs.Add(pos.WrapError(fmt.Errorf("unexpected character %q", r)))
			}
		}
	}

	l.emit(TokenEOF, "", l.pos())
}

// Only ASCII digits form numbers, matching what lexNumber consumes.
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isDigitRune(r rune) bool {
	return r >= '0' && r <= '9'
}

func (l *lexer) lexNumber(pos Position) {
	start := l.off
	kind := TokenInt

	for l.off < len(l.src) && isDigit(l.src[l.off]) {
		l.advance()
	}

	if l.off < len(l.src) && l.src[l.off] == '.' {
		kind = TokenFloat
		l.advance()
		for l.off < len(l.src) && isDigit(l.src[l.off]) {
			l.advance()
		}
	}

	if l.off < len(l.src) && (l.src[l.off] == 'e' || l.src[l.off] == 'E') {
		mark, line, col := l.off, l.line, l.col
		l.advance()
		if l.off < len(l.src) && (l.src[l.off] == '+' || l.src[l.off] == '-') {
			l.advance()
		}

		if l.off < len(l.src) && isDigit(l.src[l.off]) {
			kind = TokenFloat
			for l.off < len(l.src) && isDigit(l.src[l.off]) {
				l.advance()
			}
		} else {
			l.off, l.line, l.col = mark, line, col
		}
	}

	l.emit(kind, l.src[start:l.off], pos)
}

func (l *lexer) lexString(pos Position) {
	l.advance()

	var sb strings.Builder
	for {
		if l.off >= len(l.src) {
			l.errs.Add(pos.WrapError(fmt.Errorf("unterminated string: %w", ErrUnexpectedEOF)))
			return
		}

		r := l.advance()
		switch r {
		case '"':
			l.emit(TokenString, sb.String(), pos)
			return
		case '\\':
			if l.off >= len(l.src) {
				continue
			}

			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				l.errs.Add(pos.WrapError(fmt.Errorf("unknown escape sequence \\%c", esc)))
			}
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *lexer) lexPunct(pos Position) bool {
	for _, p := range punctuation {
		if strings.HasPrefix(l.src[l.off:], p) {
			for range len(p) {
				l.advance()
			}

			l.emit(TokenPunct, p, pos)
			return true
		}
	}

	return false
}
