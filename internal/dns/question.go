package dns

import (
	"encoding/binary"
)

// ClassIN is the Internet class. It is the only class written by Marshal;
// the class of a parsed question is read but never checked.
const ClassIN uint16 = 1

// Question represents a DNS question section entry (RFC 1035 Section 4.1.2).
//
// Name is lowercase, dot-separated and has no trailing dot.
type Question struct {
	Name string
	Type RecordType
}

// ParseQuestions parses the question section that follows the header.
//
// Questions are read back to back until b is exhausted; QDCOUNT is not
// consulted. Any failure (truncation, undecodable name, unsupported record
// type) aborts the whole section and no questions are returned.
func ParseQuestions(b []byte) ([]Question, error) {
	r := newReader(b)
	var questions []Question
	for !r.done() {
		q, err := readQuestion(r)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func readQuestion(r *reader) (Question, error) {
	labels, err := readLabels(r)
	if err != nil {
		return Question{}, err
	}
	name, err := labels.Text()
	if err != nil {
		return Question{}, err
	}
	code, err := r.readUint16("question type")
	if err != nil {
		return Question{}, err
	}
	qtype, err := ParseRecordType(code)
	if err != nil {
		return Question{}, err
	}
	if _, err := r.readUint16("question class"); err != nil {
		return Question{}, err
	}
	return Question{Name: name, Type: qtype}, nil
}

// Marshal serializes the question to DNS wire format with class IN.
func (q Question) Marshal() ([]byte, error) {
	name, err := EncodeName(q.Name)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, len(name)+4)
	b = append(b, name...)
	b = binary.BigEndian.AppendUint16(b, q.Type.Code())
	b = binary.BigEndian.AppendUint16(b, ClassIN)
	return b, nil
}
