package rng

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// SeedSource - источник серверных сидов. Выделен в интерфейс,
// чтобы тесты могли подставить фиксированный сид
type SeedSource interface {
	NewSeed() (string, error)
}

// CryptoSeedSource читает сид из crypto/rand. Единственное место,
// где энтропия может оказаться недоступной: ошибка здесь означает,
// что ставка не принимается вовсе
type CryptoSeedSource struct{}

func (CryptoSeedSource) NewSeed() (string, error) {
	b := make([]byte, 32)
	if _, err := crand.Read(b); err != nil {
		return "", fmt.Errorf("read server seed: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SeedHash - sha256 коммит серверного сида. Публикуется при приеме
// ставки, сам сид раскрывается после расчета раунда
func SeedHash(seed string) string {
	h := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(h[:])
}

// Stream - детерминированный поток равномерных значений
// HMAC-SHA256(serverSeed, clientSeed:nonce:counter).
// Все игровые дро идут через него: при известных сидах исход
// раунда воспроизводим, до раскрытия сида - непредсказуем
type Stream struct {
	key        []byte
	clientSeed string
	nonce      uint64
	counter    uint64
}

func NewStream(serverSeed, clientSeed string, nonce uint64) *Stream {
	return &Stream{
		key:        []byte(serverSeed),
		clientSeed: clientSeed,
		nonce:      nonce,
	}
}

// next возвращает очередные 8 байт потока
func (s *Stream) next() uint64 {
	mac := hmac.New(sha256.New, s.key)
	fmt.Fprintf(mac, "%s:%d:%d", s.clientSeed, s.nonce, s.counter)
	s.counter++
	sum := mac.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// Uniform возвращает равномерное значение в [0, 1)
func (s *Stream) Uniform() float64 {
	// 53 старших бита, чтобы значение точно представлялось в float64
	return float64(s.next()>>11) / (1 << 53)
}

// IntRange возвращает равномерное целое в [min, max] включительно.
// Rejection sampling против modulo bias
func (s *Stream) IntRange(min, max int) int {
	if min > max {
		min, max = max, min
	}
	n := uint64(max-min) + 1
	limit := ^uint64(0) - ^uint64(0)%n
	for {
		v := s.next()
		if v < limit {
			return min + int(v%n)
		}
	}
}

// Shuffle - равномерная перестановка Фишера-Йетса.
// Сортировка со случайным компаратором сюда не подходит: она смещена
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.IntRange(0, i)
		swap(i, j)
	}
}

// Perm возвращает равномерную перестановку [0, n)
func (s *Stream) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	s.Shuffle(n, func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}
