// Package rdf projects the reconciled archive into a CIDOC-CRM / FRBRoo
// graph using the Corago stage-music extension, serialized as Turtle.
package rdf

// Base namespaces for each archive's minted entities.
const (
	RegioBase      = "https://teatroregio.it/archivio/data/"
	FondazioneBase = "https://fondazioneiteatri.it/archivio/data/"
)

const (
	crmNS    = "http://www.cidoc-crm.org/cidoc-crm/"
	frbrooNS = "http://iflastandards.info/ns/fr/frbr/frbroo/"
	coragoNS = "http://corago.unibo.it/sm/"
	viafNS   = "http://viaf.org/viaf/"

	rdfType   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfsLabel = "http://www.w3.org/2000/01/rdf-schema#label"
	owlSameAs = "http://www.w3.org/2002/07/owl#sameAs"
	xsdDate   = "http://www.w3.org/2001/XMLSchema#date"
)

func crm(name string) string    { return crmNS + name }
func frbroo(name string) string { return frbrooNS + name }
func corago(name string) string { return coragoNS + name }

// Classes.
var (
	classPerson          = crm("E21_Person")
	classActor           = crm("E39_Actor")
	classPlace           = crm("E53_Place")
	classType            = crm("E55_Type")
	classTitle           = crm("E35_Title")
	classTimeSpan        = crm("E52_Time_Span")
	classBirth           = crm("E67_Birth")
	classDeath           = crm("E69_Death")
	classActivity        = crm("E7_Activity")
	classWork            = frbroo("F1_Work")
	classCharacter       = frbroo("F38_Character")
	classEventSet        = frbroo("F8_Event_Set")
	classPerformancePlan = frbroo("F25_Performance_Plan")
	classPerformance     = frbroo("F31_Performance")
	classWorkConception  = frbroo("F27_Work_Conception")
	classActorRole       = corago("C2_Actor_Role")
	classPerformerRole   = corago("C6_Performer_Role")
)

// Properties.
var (
	propCarriedOutBy    = crm("P14_carried_out_by")
	propConsistsOf      = crm("P9_consists_of")
	propHasTitle        = crm("P102_has_title")
	propHasType         = crm("P2_has_type")
	propHasTimeSpan     = crm("P4_has_time_span")
	propTookPlaceAt     = crm("P7_took_place_at")
	propBeginOfBegin    = crm("P82a_begin_of_the_begin")
	propEndOfEnd        = crm("P82b_end_of_the_end")
	propWasBorn         = crm("P98i_was_born")
	propDiedIn          = crm("P100i_died_in")
	propWasInitiatedBy  = frbroo("R16i_was_initiated_by")
	propIsRealisedIn    = frbroo("R9_is_realised_in")
	propPerformed       = frbroo("R25_performed")
	propHasCharacter    = frbroo("R64_has_character")
	propCarriedOutRole  = corago("CP2_carried_out_role")
	propCarriedOutActor = corago("CP3_carried_out_actor")
	propPerformedChar   = corago("CP8_performed_character")
)

// inverses is the declared inverse-predicate table. Every assertion of a
// left-hand predicate also asserts the right-hand one in the opposite
// direction.
var inverses = map[string]string{
	crm("P14_carried_out_by"):       crm("P14i_performed"),
	crm("P9_consists_of"):           crm("P9i_forms_part_of"),
	crm("P102_has_title"):           crm("P102i_is_title_of"),
	crm("P1_is_identified_by"):      crm("P1i_identifies"),
	crm("P2_has_type"):              crm("P2i_is_type_of"),
	crm("P4_has_time_span"):         crm("P4i_is_time_span_of"),
	crm("P7_took_place_at"):         crm("P7i_witnessed"),
	frbroo("R16i_was_initiated_by"): frbroo("R16_initiated"),
	frbroo("R9_is_realised_in"):     frbroo("R9i_realises"),
	frbroo("R25_performed"):         frbroo("R25i_was_performed_by"),
	frbroo("R17_created"):           frbroo("R17i_was_created_by"),
	frbroo("R64_has_character"):     frbroo("R64i_is_character_of"),
}
