package htmlrw

import "bytes"

// foreignWalk rewrites attribute values inside a raw svg or math subtree.
// visit receives the lowercased attribute name and unquoted value and
// returns the replacement value; returning the input leaves the bytes
// untouched. Everything outside attribute values is copied verbatim.
func foreignWalk(data []byte, visit func(name, val string) string) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	i := 0
	for i < len(data) {
		if data[i] != '<' {
			out.WriteByte(data[i])
			i++
			continue
		}
		if bytes.HasPrefix(data[i:], []byte("<!--")) {
			end := bytes.Index(data[i+4:], []byte("-->"))
			if end < 0 {
				out.Write(data[i:])
				return out.Bytes()
			}
			out.Write(data[i : i+4+end+3])
			i += 4 + end + 3
			continue
		}
		j := i + 1
		if j < len(data) && data[j] == '/' {
			j++
		}
		nameEnd := j
		for nameEnd < len(data) && isTagNameChar(data[nameEnd]) {
			nameEnd++
		}
		if nameEnd == j {
			out.WriteByte('<')
			i++
			continue
		}
		out.Write(data[i:nameEnd])
		i = foreignAttrs(data, nameEnd, &out, visit)
	}
	return out.Bytes()
}

// foreignAttrs walks the attribute list of one tag, from just past the tag
// name to just past '>', writing the (possibly rewritten) bytes to out and
// returning the new position.
func foreignAttrs(data []byte, i int, out *bytes.Buffer, visit func(name, val string) string) int {
	for i < len(data) {
		c := data[i]
		if c == '>' {
			out.WriteByte(c)
			return i + 1
		}
		if isHTMLSpace(c) || c == '/' {
			out.WriteByte(c)
			i++
			continue
		}

		j := i
		for j < len(data) && !isHTMLSpace(data[j]) && data[j] != '=' && data[j] != '>' && data[j] != '/' {
			j++
		}
		name := asciiLower(string(data[i:j]))
		out.Write(data[i:j])
		i = j
		for i < len(data) && isHTMLSpace(data[i]) {
			out.WriteByte(data[i])
			i++
		}
		if i >= len(data) || data[i] != '=' {
			continue
		}
		out.WriteByte('=')
		i++
		for i < len(data) && isHTMLSpace(data[i]) {
			out.WriteByte(data[i])
			i++
		}
		if i >= len(data) {
			return i
		}

		var val string
		quote := byte(0)
		if data[i] == '"' || data[i] == '\'' {
			quote = data[i]
			end := bytes.IndexByte(data[i+1:], quote)
			if end < 0 {
				out.Write(data[i:])
				return len(data)
			}
			val = string(data[i+1 : i+1+end])
			i += end + 2
		} else {
			j := i
			for j < len(data) && !isHTMLSpace(data[j]) && data[j] != '>' {
				j++
			}
			val = string(data[i:j])
			i = j
		}
		if quote != 0 {
			out.WriteByte(quote)
		}
		out.WriteString(visit(name, val))
		if quote != 0 {
			out.WriteByte(quote)
		}
	}
	return i
}

func isTagNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == ':'
}
