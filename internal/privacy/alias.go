package privacy

import (
	"crypto/md5"
	"encoding/binary"
	"strconv"
)

// The word lists and the digest are part of every alias already shown to
// users. Changing either renames everybody.
var (
	aliasAdjectives = [...]string{"Swift", "Clever", "Bold", "Kind", "Wise", "Fair", "Calm", "Brave"}
	aliasNouns      = [...]string{"Falcon", "Lion", "Eagle", "Wolf", "Bear", "Fox", "Hawk", "Tiger"}
)

// Alias derives a stable pseudonym such as "BraveFox81" from a subject id.
//
// Hex digits 0-3, 4-7 and 8-11 of the MD5 digest pick the adjective, the noun
// and the number (mod 1000, unpadded). Those digit groups are the first
// three big-endian uint16 words of the digest.
func Alias(id string) string {
	sum := md5.Sum([]byte(id))

	adj := binary.BigEndian.Uint16(sum[0:2]) % uint16(len(aliasAdjectives))
	noun := binary.BigEndian.Uint16(sum[2:4]) % uint16(len(aliasNouns))
	number := binary.BigEndian.Uint16(sum[4:6]) % 1000

	return aliasAdjectives[adj] + aliasNouns[noun] + strconv.Itoa(int(number))
}

func aliasFor(subjectID string) string {
	if subjectID == "" {
		return Alias("anonymous")
	}
	return Alias(subjectID)
}
