package store

// Key layout:
//
//	user:<id>                   user document
//	user:idx:email:<email>      user id
//	post:<id>                   post document
//	post:idx:owner:<owner>:<id> post id
const (
	userPrefix = "user:"
	postPrefix = "post:"
	idxSegment = "idx:"
)

// indexKey builds the key for one secondary index entry.
func indexKey(prefix, name, value string) []byte {
	buf := make([]byte, 0, len(prefix)+len(idxSegment)+len(name)+1+len(value))
	buf = append(buf, prefix...)
	buf = append(buf, idxSegment...)
	buf = append(buf, name...)
	buf = append(buf, ':')
	buf = append(buf, value...)
	return buf
}

// entityKey builds the primary key for a document.
func entityKey(prefix, id string) []byte {
	buf := make([]byte, 0, len(prefix)+len(id))
	buf = append(buf, prefix...)
	return append(buf, id...)
}
