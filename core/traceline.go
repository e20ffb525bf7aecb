package core

// traceLineSize bounds one trace line; longer lines are truncated
const traceLineSize = 128

// traceLine formats a trace line in place. Its buffer lives inside the
// owning struct, so building and writing a line never allocates.
type traceLine struct {
	buf [traceLineSize]byte
	n   int
}

func (l *traceLine) reset() { l.n = 0 }

func (l *traceLine) str(s string) {
	l.n += copy(l.buf[l.n:], s)
}

func (l *traceLine) num(v uint32) {
	var tmp [10]byte
	pos := len(tmp)
	for {
		pos--
		tmp[pos] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	l.n += copy(l.buf[l.n:], tmp[pos:])
}

// field appends " key=value"
func (l *traceLine) field(key string, v uint32) {
	l.str(" ")
	l.str(key)
	l.str("=")
	l.num(v)
}

// quoted appends s in double quotes, escaping quotes and backslashes so the
// line stays shell-splittable
func (l *traceLine) quoted(s string) {
	l.str(`"`)
	for i := 0; i < len(s); i++ {
		c := s[i]
		need := 1
		if c == '"' || c == '\\' {
			need = 2
		}
		// keep room for the closing quote
		if l.n+need > traceLineSize-1 {
			break
		}
		if need == 2 {
			l.buf[l.n] = '\\'
			l.n++
		}
		l.buf[l.n] = c
		l.n++
	}
	l.str(`"`)
}

func (l *traceLine) bytes() []byte { return l.buf[:l.n] }
