package services

import (
	"strings"
	"sync"
	"time"

	"xcargo/internal/domain/models"
)

// StagedComprobante is a ledger entry: normalized proof data plus the
// attached file, which the entry owns exclusively until submission or
// removal.
type StagedComprobante struct {
	models.Comprobante
	Estado        models.EstadoComprobante `json:"estado"`
	ArchivoNombre string                   `json:"archivo_nombre"`
	ArchivoDatos  []byte                   `json:"-"`
}

// Borrador is the OCR-populated draft awaiting user confirmation. Gen ties
// it to the extraction request that produced it so a stale response can
// never overwrite a newer draft.
type Borrador struct {
	Comprobante   models.Comprobante `json:"comprobante"`
	Advertencias  []string           `json:"advertencias,omitempty"`
	Confianza     float64            `json:"confianza"`
	CalidadImagen float64            `json:"calidad_imagen"`
	Gen           uint64             `json:"-"`
}

// StagingSession is the per-conductor staging state: the guides being paid
// (read-only once set), the staged proofs, and at most one applied bono.
type StagingSession struct {
	Correo       string
	Guias        []models.Guia
	Comprobantes []StagedComprobante
	Bono         *models.Bono
	Borrador     *Borrador

	draftGen  uint64
	updatedAt time.Time
}

// StagingStore keeps sessions in memory, keyed by conductor email. All
// mutation happens under the store mutex; sessions idle past the TTL are
// dropped by the janitor, releasing any file bytes they still own.
type StagingStore struct {
	mu       sync.Mutex
	sessions map[string]*StagingSession
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

const defaultSessionTTL = 2 * time.Hour

func NewStagingStore(ttl time.Duration) *StagingStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s := &StagingStore{
		sessions: make(map[string]*StagingSession),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *StagingStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *StagingStore) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for correo, sess := range s.sessions {
				if now.Sub(sess.updatedAt) > s.ttl {
					delete(s.sessions, correo)
				}
			}
			s.mu.Unlock()
		}
	}
}

// session returns the live session for a conductor, creating it on demand.
// Caller must hold s.mu.
func (s *StagingStore) session(correo string) *StagingSession {
	correo = strings.ToLower(strings.TrimSpace(correo))
	sess, ok := s.sessions[correo]
	if !ok {
		sess = &StagingSession{Correo: correo}
		s.sessions[correo] = sess
	}
	sess.updatedAt = time.Now()
	return sess
}

func (s *StagingStore) withSession(correo string, fn func(*StagingSession)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.session(correo))
}

// BeginDraft invalidates any in-flight extraction and returns the token the
// eventual result must present to land.
func (s *StagingStore) BeginDraft(correo string) uint64 {
	var gen uint64
	s.withSession(correo, func(sess *StagingSession) {
		sess.draftGen++
		gen = sess.draftGen
	})
	return gen
}

// CommitDraft stores the extraction result only when its generation is still
// current; a stale response is discarded without mutating the session.
func (s *StagingStore) CommitDraft(correo string, b Borrador) bool {
	committed := false
	s.withSession(correo, func(sess *StagingSession) {
		if b.Gen == sess.draftGen {
			copied := b
			sess.Borrador = &copied
			committed = true
		}
	})
	return committed
}

// ClearDraft drops the current draft, e.g. after a hard block on an
// already-used reference.
func (s *StagingStore) ClearDraft(correo string) {
	s.withSession(correo, func(sess *StagingSession) {
		sess.Borrador = nil
	})
}

// Reset discards the whole session.
func (s *StagingStore) Reset(correo string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.ToLower(strings.TrimSpace(correo)))
}
