package board

import "strings"

// SAN renders a legal move of p in standard algebraic notation.
func (p *Position) SAN(m Move) string {
	if m == NoMove {
		return "--"
	}

	var sb strings.Builder
	switch m.Special() {
	case SpecialCastleKing:
		sb.WriteString("O-O")
	case SpecialCastleQueen:
		sb.WriteString("O-O-O")
	default:
		from, to := m.From(), m.To()
		pt := m.Piece().Type()
		if pt == Pawn {
			if m.IsCapture() {
				sb.WriteByte(byte('a' + from.File()))
			}
		} else {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(p.disambiguation(m))
		}
		if m.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion()])
		}
	}

	if p.Apply(m) {
		switch {
		case p.IsCheckmate():
			sb.WriteByte('#')
		case p.InCheck():
			sb.WriteByte('+')
		}
		p.Revert()
	}
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece to the same square.
func (p *Position) disambiguation(m Move) string {
	from := m.From()
	var sameFile, sameRank, ambiguous bool
	for _, other := range p.LegalMoves() {
		if other.To() != m.To() || other.Piece() != m.Piece() || other.From() == from {
			continue
		}
		ambiguous = true
		if other.From().File() == from.File() {
			sameFile = true
		}
		if other.From().Rank() == from.Rank() {
			sameRank = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// MovesToSAN renders a line of moves played from p. Rendering stops at the
// first move that is not legal in the position reached so far.
func (p *Position) MovesToSAN(line []Move) []string {
	q := p.Copy()
	out := make([]string, 0, len(line))
	for _, m := range line {
		legal := false
		for _, lm := range q.LegalMoves() {
			if lm == m {
				legal = true
				break
			}
		}
		if !legal {
			break
		}
		out = append(out, q.SAN(m))
		q.Apply(m)
	}
	return out
}
