package normalizer

var englishStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "if", "in",
	"into", "is", "it", "no", "not", "of", "on", "or", "such", "that", "the",
	"their", "then", "there", "these", "they", "this", "to", "was", "were",
	"will", "with", "i", "me", "my", "mine", "we", "us", "our", "ours", "you",
	"your", "yours", "he", "him", "his", "she", "her", "hers", "himself",
	"herself", "its", "been", "being", "have", "has", "had", "do", "does",
	"did", "from", "so", "than", "too", "very", "can", "just", "should",
}

// Subset of the common Indonesian stopword list.
var indonesianStopWords = []string{
	"yang", "untuk", "pada", "ke", "para", "namun", "menurut", "antara", "dia",
	"dua", "ia", "seperti", "jika", "sehingga", "kembali", "dan", "tidak",
	"ini", "karena", "kepada", "oleh", "saat", "harus", "sementara", "setelah",
	"belum", "kami", "sekitar", "bagi", "serta", "di", "dari", "telah",
	"sebagai", "masih", "hal", "ketika", "adalah", "itu", "dalam", "bisa",
	"bahwa", "atau", "hanya", "kita", "dengan", "akan", "juga", "ada",
	"mereka", "sudah", "saya", "terhadap", "secara", "agar", "lain", "anda",
	"begitu", "mengapa", "kenapa", "yaitu", "yakni", "daripada", "itulah",
	"lagi", "maka", "tentang", "demi", "dimana", "kemana", "pula", "sambil",
	"sebelum", "sesudah", "supaya", "guna", "kah", "pun", "sampai", "sedangkan",
	"selagi", "tetapi", "apakah", "kecuali", "sebab", "selain", "seolah",
	"seraya", "seterusnya", "tanpa", "agak", "boleh", "dapat", "dsb", "dst",
	"dll", "dahulu", "dulunya", "anu", "demikian", "tapi", "ingin", "juga",
	"nggak", "mari", "nanti", "melainkan", "oh", "ok", "seharusnya",
	"sebetulnya", "setiap", "setidaknya", "sesuatu", "pasti", "saja", "toh",
	"ya", "walau", "tolong", "tentu", "amat", "apalagi", "bagaimanapun",
}
